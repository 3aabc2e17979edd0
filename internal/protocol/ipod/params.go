package ipod

import (
	"fmt"
	"strings"
)

// AirParam AiR 命令参数（按命令号分派的变体）
type AirParam interface {
	encode(w *Writer) error
}

// ItemType 条目类型
type ItemType uint8

const (
	ItemPlaylist ItemType = 0x01
	ItemArtist   ItemType = 0x02
	ItemAlbum    ItemType = 0x03
	ItemGenre    ItemType = 0x04
	ItemSong     ItemType = 0x05
	ItemComposer ItemType = 0x06
)

var itemTypeNames = map[ItemType]string{
	ItemPlaylist: "PLAYLIST",
	ItemArtist:   "ARTIST",
	ItemAlbum:    "ALBUM",
	ItemGenre:    "GENRE",
	ItemSong:     "SONG",
	ItemComposer: "COMPOSER",
}

func (t ItemType) String() string {
	if s, ok := itemTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ItemType(%d)", uint8(t))
}

// Valid 是否为已知类型
func (t ItemType) Valid() bool {
	_, ok := itemTypeNames[t]
	return ok
}

// ParseItemType 按名称解析条目类型（不区分大小写）
func ParseItemType(name string) (ItemType, error) {
	up := strings.ToUpper(strings.TrimSpace(name))
	for t, s := range itemTypeNames {
		if s == up {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown item type %q", name)
}

func readItemType(r *Reader) (ItemType, error) {
	v, err := r.Uint8()
	if err != nil {
		return 0, err
	}
	t := ItemType(v)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: item type 0x%02X", ErrInvalidFrame, v)
	}
	return t, nil
}

// EmptyParam 无参数
type EmptyParam struct{}

func (*EmptyParam) encode(*Writer) error { return nil }

// Uint8Param 单字节参数
type Uint8Param struct{ Value uint8 }

func (p *Uint8Param) encode(w *Writer) error { w.PutUint8(p.Value); return nil }

// Uint16Param 双字节参数
type Uint16Param struct{ Value uint16 }

func (p *Uint16Param) encode(w *Writer) error { w.PutUint16(p.Value); return nil }

// Uint32Param 四字节参数（播放列表位置、曲目序号、计数等）
type Uint32Param struct{ Value uint32 }

func (p *Uint32Param) encode(w *Writer) error { w.PutUint32(p.Value); return nil }

// BytesParam 定长不透明字节，长度由目录项约束
type BytesParam struct{ Data []byte }

func (p *BytesParam) encode(w *Writer) error { w.PutBytes(p.Data); return nil }

// StringParam NUL 结尾的 ASCII 文本
type StringParam struct{ Text string }

func (p *StringParam) encode(w *Writer) error { return w.PutCString(p.Text) }

// ItemParam 类型 + 序号
type ItemParam struct {
	Type   ItemType
	Number uint32
}

func (p *ItemParam) encode(w *Writer) error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: item type %d", ErrInvalidFrame, p.Type)
	}
	w.PutUint8(uint8(p.Type))
	w.PutUint32(p.Number)
	return nil
}

// ItemRangeParam 类型 + 起始序号 + 数量
type ItemRangeParam struct {
	Type   ItemType
	Start  uint32
	Length uint32
}

func (p *ItemRangeParam) encode(w *Writer) error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: item type %d", ErrInvalidFrame, p.Type)
	}
	w.PutUint8(uint8(p.Type))
	w.PutUint32(p.Start)
	w.PutUint32(p.Length)
	return nil
}

// ItemNameResult 条目名称应答
type ItemNameResult struct {
	Offset uint32
	Name   string
}

func (p *ItemNameResult) encode(w *Writer) error {
	w.PutUint32(p.Offset)
	return w.PutCString(p.Name)
}

// 播放状态取值（RES_TIME_STATUS.status）
const (
	TimeStatusStop    uint8 = 0x00
	TimeStatusPlaying uint8 = 0x01
	TimeStatusPaused  uint8 = 0x02
)

// TimeStatusResult 曲目总长、已播放时长（毫秒）与播放状态
type TimeStatusResult struct {
	Length  uint32
	Elapsed uint32
	Status  uint8
}

func (p *TimeStatusResult) encode(w *Writer) error {
	w.PutUint32(p.Length)
	w.PutUint32(p.Elapsed)
	w.PutUint8(p.Status)
	return nil
}

var screenSizeGap = []byte{0x00}

// ScreenSizeResult 屏幕尺寸：宽、保留字节 0x00、高
type ScreenSizeResult struct {
	Width  uint16
	Height uint16
}

func (p *ScreenSizeResult) encode(w *Writer) error {
	w.PutUint16(p.Width)
	w.PutBytes(screenSizeGap)
	w.PutUint16(p.Height)
	return nil
}

// ColorScreenSizeResult 彩屏尺寸，结构未知，按10字节透传
type ColorScreenSizeResult struct {
	Data [10]byte
}

func (p *ColorScreenSizeResult) encode(w *Writer) error { w.PutBytes(p.Data[:]); return nil }

// CommandResultParam 命令执行结果（FEEDBACK）
type CommandResultParam struct {
	Result  uint8
	Command uint16
}

func (p *CommandResultParam) encode(w *Writer) error {
	w.PutUint8(p.Result)
	w.PutUint16(p.Command)
	return nil
}

// FEEDBACK 结果码
const (
	ResultSuccess uint8 = 0x00
	ResultFailure uint8 = 0x02
)

// PictureControlBlock 图片上传数据块
type PictureControlBlock struct {
	Block uint16
	Bytes []byte
}

func (p *PictureControlBlock) encode(w *Writer) error {
	w.PutUint16(p.Block)
	w.PutBytes(p.Bytes)
	return nil
}

var pictureColorMagic = []byte{0x01}

// PictureControlHeadBlock 首个图片数据块（block 0）携带的图像头
type PictureControlHeadBlock struct {
	Block        uint16
	Width        uint16
	Height       uint16
	BytesPerLine uint32
	Bytes        []byte
}

// Head 将 block 0 按图像头布局解析
func (p *PictureControlBlock) Head() (*PictureControlHeadBlock, error) {
	if p.Block != 0 {
		return nil, fmt.Errorf("%w: block %d is not a head block", ErrInvalidFrame, p.Block)
	}
	r := NewReader(p.Bytes)
	if err := r.Magic(pictureColorMagic); err != nil {
		return nil, err
	}
	h := &PictureControlHeadBlock{Block: p.Block}
	var err error
	if h.Width, err = r.Uint16(); err != nil {
		return nil, err
	}
	if h.Height, err = r.Uint16(); err != nil {
		return nil, err
	}
	if h.BytesPerLine, err = r.Uint32(); err != nil {
		return nil, err
	}
	h.Bytes = r.Rest()
	return h, nil
}

func (p *PictureControlHeadBlock) encode(w *Writer) error {
	w.PutUint16(p.Block)
	w.PutBytes(pictureColorMagic)
	w.PutUint16(p.Width)
	w.PutUint16(p.Height)
	w.PutUint32(p.BytesPerLine)
	w.PutBytes(p.Bytes)
	return nil
}
