package ipod

// Mode 帧模式（第一层判别值）
type Mode uint8

const (
	ModeSwitch            Mode = 0x00
	ModeVoiceRecorder     Mode = 0x01
	ModeSimpleRemote      Mode = 0x02
	ModeRequestModeStatus Mode = 0x03
	ModeAir               Mode = 0x04
)

func (m Mode) String() string { return modeTable.Name(m) }

// 模式切换命令号（mode 0x00）
const (
	SwitchGetMode               uint16 = 0x0003
	SwitchSetAdvancedRemoteAlt  uint16 = 0x0005
	SwitchSetIpodRemoteAlt      uint16 = 0x0006
	SwitchSetVoiceRecorder      uint16 = 0x0101
	SwitchSetIpodRemote         uint16 = 0x0102
	SwitchSetAdvancedRemote     uint16 = 0x0104
	SwitchResModeVoiceRecorder  uint16 = 0x0401
	SwitchResModeIpodRemote     uint16 = 0x0402
	SwitchResModeAdvancedRemote uint16 = 0x0404
)

// 录音模式命令号（mode 0x01）
const (
	VoiceRecordingStarted uint16 = 0x0100
	VoiceRecordingStopped uint16 = 0x0101
)

// 简易遥控按键位图（mode 0x02），按长度分为三类
var (
	ButtonReleased   = []byte{0x00, 0x00}
	ButtonPlayPause  = []byte{0x00, 0x01}
	ButtonVolumeUp   = []byte{0x00, 0x02}
	ButtonVolumeDown = []byte{0x00, 0x04}
	ButtonNextSong   = []byte{0x00, 0x08}
	ButtonPrevSong   = []byte{0x00, 0x10}
	ButtonNextAlbum  = []byte{0x00, 0x20}
	ButtonPrevAlbum  = []byte{0x00, 0x40}
	ButtonStop       = []byte{0x00, 0x80}

	ButtonPlay         = []byte{0x00, 0x00, 0x01}
	ButtonPause        = []byte{0x00, 0x00, 0x02}
	ButtonMute         = []byte{0x00, 0x00, 0x04}
	ButtonNextPlaylist = []byte{0x00, 0x00, 0x20}
	ButtonPrevPlaylist = []byte{0x00, 0x00, 0x40}
	ButtonShuffle      = []byte{0x00, 0x00, 0x80}

	ButtonRepeat   = []byte{0x00, 0x00, 0x00, 0x01}
	ButtonIpodOff  = []byte{0x00, 0x00, 0x00, 0x04}
	ButtonIpodOn   = []byte{0x00, 0x00, 0x00, 0x08}
	ButtonMenu     = []byte{0x00, 0x00, 0x00, 0x40}
	ButtonOKSelect = []byte{0x00, 0x00, 0x00, 0x80}
)

// AiR 命令号（mode 0x04）。NCU = 用途未确认
const (
	AirNCU01              uint16 = 0x0000
	AirFeedback           uint16 = 0x0001
	AirNCU02              uint16 = 0x0002 // 疑似 ping 请求
	AirNCU03              uint16 = 0x0003 // 疑似 ping 应答
	AirNCU09              uint16 = 0x0009 // 查询 NCU_0B 设置的标志
	AirNCU0A              uint16 = 0x000A // NCU_09 的应答
	AirNCU0B              uint16 = 0x000B // 设置标志
	AirNCU0C              uint16 = 0x000C
	AirNCU0D              uint16 = 0x000D
	AirGetIpodType        uint16 = 0x0012
	AirResIpodType        uint16 = 0x0013
	AirGetIpodName        uint16 = 0x0014
	AirResIpodName        uint16 = 0x0015
	AirSwitchMainPlaylist uint16 = 0x0016
	AirSwitchItem         uint16 = 0x0017
	AirGetTypeCount       uint16 = 0x0018
	AirResTypeCount       uint16 = 0x0019
	AirGetItemNames       uint16 = 0x001A
	AirResItemName        uint16 = 0x001B
	AirGetTimeStatus      uint16 = 0x001C
	AirResTimeStatus      uint16 = 0x001D
	AirGetPlaylistPos     uint16 = 0x001E
	AirResPlaylistPos     uint16 = 0x001F
	AirGetSongTitle       uint16 = 0x0020
	AirResSongTitle       uint16 = 0x0021
	AirGetSongArtist      uint16 = 0x0022
	AirResSongArtist      uint16 = 0x0023
	AirGetSongAlbum       uint16 = 0x0024
	AirResSongAlbum       uint16 = 0x0025
	AirSetPollingMode     uint16 = 0x0026
	AirResTimeElapsed     uint16 = 0x0027
	AirExecPlaylistJump   uint16 = 0x0028
	AirPlaybackControl    uint16 = 0x0029
	AirGetShuffleMode     uint16 = 0x002C
	AirResShuffleMode     uint16 = 0x002D
	AirSetShuffleMode     uint16 = 0x002E
	AirGetRepeatMode      uint16 = 0x002F
	AirResRepeatMode      uint16 = 0x0030
	AirSetRepeatMode      uint16 = 0x0031
	AirUploadPicture      uint16 = 0x0032
	AirGetScreenSize      uint16 = 0x0033
	AirResScreenSize      uint16 = 0x0034
	AirGetPlaylistSize    uint16 = 0x0035
	AirResPlaylistSize    uint16 = 0x0036
	AirPlaylistJump       uint16 = 0x0037
	AirNCU38              uint16 = 0x0038 // 未登记到分派表
	AirNCU39              uint16 = 0x0039 // 疑似彩屏尺寸
)

// PLAYBACK_CONTROL 子命令
const (
	PlaybackPlayPause uint8 = 0x01
	PlaybackStop      uint8 = 0x02
	PlaybackSkipNext  uint8 = 0x03
	PlaybackSkipPrev  uint8 = 0x04
	PlaybackFastFwd   uint8 = 0x05
	PlaybackRewind    uint8 = 0x06
	PlaybackStopFFRW  uint8 = 0x07
)

// SET_POLLING_MODE 参数
const (
	PollingStop  uint8 = 0x00
	PollingStart uint8 = 0x01
)

// 随机/循环模式取值
const (
	ShuffleOff    uint8 = 0x00
	ShuffleSongs  uint8 = 0x01
	ShuffleAlbums uint8 = 0x02

	RepeatOff uint8 = 0x00
	RepeatOne uint8 = 0x01
	RepeatAll uint8 = 0x02
)

func acceptsParam[T AirParam](p AirParam) bool {
	_, ok := p.(T)
	return ok
}

func paramLayout[T AirParam](name string, dec func(r *Reader) (T, error)) Layout[AirParam] {
	return Layout[AirParam]{
		Name: name,
		Decode: func(r *Reader) (AirParam, error) {
			v, err := dec(r)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		Accepts: acceptsParam[T],
	}
}

func fixedBytesLayout(name string, n int) Layout[AirParam] {
	return Layout[AirParam]{
		Name: name,
		Decode: func(r *Reader) (AirParam, error) {
			b, err := r.Bytes(n)
			if err != nil {
				return nil, err
			}
			return &BytesParam{Data: b}, nil
		},
		Accepts: func(p AirParam) bool {
			b, ok := p.(*BytesParam)
			return ok && len(b.Data) == n
		},
	}
}

func decodeEmpty(*Reader) (*EmptyParam, error) { return &EmptyParam{}, nil }

func decodeUint8(r *Reader) (*Uint8Param, error) {
	v, err := r.Uint8()
	return &Uint8Param{Value: v}, err
}

func decodeUint16(r *Reader) (*Uint16Param, error) {
	v, err := r.Uint16()
	return &Uint16Param{Value: v}, err
}

func decodeUint32(r *Reader) (*Uint32Param, error) {
	v, err := r.Uint32()
	return &Uint32Param{Value: v}, err
}

func decodeString(r *Reader) (*StringParam, error) {
	s, err := r.CString()
	return &StringParam{Text: s}, err
}

func decodeItem(r *Reader) (*ItemParam, error) {
	t, err := readItemType(r)
	if err != nil {
		return nil, err
	}
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return &ItemParam{Type: t, Number: n}, nil
}

func decodeItemRange(r *Reader) (*ItemRangeParam, error) {
	t, err := readItemType(r)
	if err != nil {
		return nil, err
	}
	p := &ItemRangeParam{Type: t}
	if p.Start, err = r.Uint32(); err != nil {
		return nil, err
	}
	if p.Length, err = r.Uint32(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeItemName(r *Reader) (*ItemNameResult, error) {
	off, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	name, err := r.CString()
	if err != nil {
		return nil, err
	}
	return &ItemNameResult{Offset: off, Name: name}, nil
}

func decodeTimeStatus(r *Reader) (*TimeStatusResult, error) {
	p := &TimeStatusResult{}
	var err error
	if p.Length, err = r.Uint32(); err != nil {
		return nil, err
	}
	if p.Elapsed, err = r.Uint32(); err != nil {
		return nil, err
	}
	if p.Status, err = r.Uint8(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeScreenSize(r *Reader) (*ScreenSizeResult, error) {
	p := &ScreenSizeResult{}
	var err error
	if p.Width, err = r.Uint16(); err != nil {
		return nil, err
	}
	if err = r.Magic(screenSizeGap); err != nil {
		return nil, err
	}
	if p.Height, err = r.Uint16(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeColorScreenSize(r *Reader) (*ColorScreenSizeResult, error) {
	b, err := r.Bytes(10)
	if err != nil {
		return nil, err
	}
	p := &ColorScreenSizeResult{}
	copy(p.Data[:], b)
	return p, nil
}

func decodeCommandResult(r *Reader) (*CommandResultParam, error) {
	p := &CommandResultParam{}
	var err error
	if p.Result, err = r.Uint8(); err != nil {
		return nil, err
	}
	if p.Command, err = r.Uint16(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodePictureBlock(r *Reader) (*PictureControlBlock, error) {
	block, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	return &PictureControlBlock{Block: block, Bytes: r.Rest()}, nil
}

var (
	emptyLayout         = func(name string) Layout[AirParam] { return paramLayout(name, decodeEmpty) }
	uint8Layout         = func(name string) Layout[AirParam] { return paramLayout(name, decodeUint8) }
	uint16Layout        = func(name string) Layout[AirParam] { return paramLayout(name, decodeUint16) }
	uint32Layout        = func(name string) Layout[AirParam] { return paramLayout(name, decodeUint32) }
	stringLayout        = func(name string) Layout[AirParam] { return paramLayout(name, decodeString) }
	commandResultLayout = func(name string) Layout[AirParam] { return paramLayout(name, decodeCommandResult) }
)

func uploadPictureLayout() Layout[AirParam] {
	l := paramLayout("UPLOAD_PICTURE", decodePictureBlock)
	l.Accepts = func(p AirParam) bool {
		switch p.(type) {
		case *PictureControlBlock, *PictureControlHeadBlock:
			return true
		}
		return false
	}
	return l
}

// airTable AiR 命令号 -> 参数布局
var airTable = NewTable("air command", map[uint16]Layout[AirParam]{
	AirNCU01:              commandResultLayout("NCU_01"),
	AirFeedback:           commandResultLayout("FEEDBACK"),
	AirNCU02:              emptyLayout("NCU_02"),
	AirNCU03:              fixedBytesLayout("NCU_03", 8),
	AirNCU09:              emptyLayout("NCU_09"),
	AirNCU0A:              uint8Layout("NCU_0A"),
	AirNCU0B:              uint8Layout("NCU_0B"),
	AirNCU0C:              fixedBytesLayout("NCU_0C", 7),
	AirNCU0D:              fixedBytesLayout("NCU_0D", 11),
	AirGetIpodType:        emptyLayout("GET_IPOD_TYPE"),
	AirResIpodType:        uint16Layout("RES_IPOD_TYPE"),
	AirGetIpodName:        emptyLayout("GET_IPOD_NAME"),
	AirResIpodName:        stringLayout("RES_IPOD_NAME"),
	AirSwitchMainPlaylist: emptyLayout("SWITCH_MAIN_PLAYLIST"),
	AirSwitchItem:         paramLayout("SWITCH_ITEM", decodeItem),
	AirGetTypeCount:       uint8Layout("GET_TYPE_COUNT"),
	AirResTypeCount:       uint32Layout("RES_TYPE_COUNT"),
	AirGetItemNames:       paramLayout("GET_ITEM_NAMES", decodeItemRange),
	AirResItemName:        paramLayout("RES_ITEM_NAME", decodeItemName),
	AirGetTimeStatus:      emptyLayout("GET_TIME_STATUS"),
	AirResTimeStatus:      paramLayout("RES_TIME_STATUS", decodeTimeStatus),
	AirGetPlaylistPos:     emptyLayout("GET_PLAYLIST_POS"),
	AirResPlaylistPos:     uint32Layout("RES_PLAYLIST_POS"),
	AirGetSongTitle:       uint32Layout("GET_SONG_TITLE"),
	AirResSongTitle:       stringLayout("RES_SONG_TITLE"),
	AirGetSongArtist:      uint32Layout("GET_SONG_ARTIST"),
	AirResSongArtist:      stringLayout("RES_SONG_ARTIST"),
	AirGetSongAlbum:       uint32Layout("GET_SONG_ALBUM"),
	AirResSongAlbum:       stringLayout("RES_SONG_ALBUM"),
	AirSetPollingMode:     uint8Layout("SET_POLLING_MODE"),
	AirResTimeElapsed:     uint32Layout("RES_TIME_ELAPSED"),
	AirExecPlaylistJump:   uint32Layout("EXEC_PLAYLIST_JUMP"),
	AirPlaybackControl:    uint8Layout("PLAYBACK_CONTROL"),
	AirGetShuffleMode:     emptyLayout("GET_SHUFFLE_MODE"),
	AirResShuffleMode:     uint8Layout("RES_SHUFFLE_MODE"),
	AirSetShuffleMode:     uint8Layout("SET_SHUFFLE_MODE"),
	AirGetRepeatMode:      emptyLayout("GET_REPEAT_MODE"),
	AirResRepeatMode:      uint8Layout("RES_REPEAT_MODE"),
	AirSetRepeatMode:      uint8Layout("SET_REPEAT_MODE"),
	AirUploadPicture:      uploadPictureLayout(),
	AirGetScreenSize:      emptyLayout("GET_SCREEN_SIZE"),
	AirResScreenSize:      paramLayout("RES_SCREEN_SIZE", decodeScreenSize),
	AirGetPlaylistSize:    emptyLayout("GET_PLAYLIST_SIZE"),
	AirResPlaylistSize:    uint32Layout("RES_PLAYLIST_SIZE"),
	AirPlaylistJump:       uint32Layout("PLAYLIST_JUMP"),
	AirNCU39:              paramLayout("NCU_39", decodeColorScreenSize),
})
