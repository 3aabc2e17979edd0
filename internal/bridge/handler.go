package bridge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/playback"
	"github.com/taoyao-code/blueplayer/internal/protocol/ipod"
)

// HandlePacket 按 mode 处理一帧上行命令
func (b *Bridge) HandlePacket(ctx context.Context, p *ipod.Packet) error {
	switch cmd := p.Command.(type) {
	case *ipod.SwitchModeCommand:
		return b.handleSwitchMode(ctx, cmd)
	case *ipod.ModeStatusRequest:
		return b.reply(ctx, b.modeResponse())
	case *ipod.VoiceRecorderCommand:
		b.logger.Info("voice recorder command", zap.String("id", fmt.Sprintf("0x%04X", cmd.ID)))
		return nil
	case *ipod.SimpleRemoteCommand:
		return b.handleSimpleRemote(ctx, cmd)
	case *ipod.AirCommand:
		return b.handleAir(ctx, cmd)
	}
	return fmt.Errorf("unhandled command %T", p.Command)
}

func (b *Bridge) modeResponse() *ipod.SwitchModeCommand {
	if b.state.AdvancedRemote() {
		return &ipod.SwitchModeCommand{ID: ipod.SwitchResModeAdvancedRemote}
	}
	return &ipod.SwitchModeCommand{ID: ipod.SwitchResModeIpodRemote}
}

func (b *Bridge) handleSwitchMode(ctx context.Context, cmd *ipod.SwitchModeCommand) error {
	switch cmd.ID {
	case ipod.SwitchSetAdvancedRemote, ipod.SwitchSetAdvancedRemoteAlt:
		b.state.SetAdvancedRemote(true)
		b.logger.Info("switched to advanced remote mode")
		return b.reply(ctx, b.modeResponse())
	case ipod.SwitchSetIpodRemote, ipod.SwitchSetIpodRemoteAlt:
		b.state.SetAdvancedRemote(false)
		b.stopPolling()
		b.logger.Info("switched to simple remote mode")
		return b.reply(ctx, b.modeResponse())
	case ipod.SwitchSetVoiceRecorder:
		b.state.SetAdvancedRemote(false)
		b.stopPolling()
		return b.reply(ctx, &ipod.SwitchModeCommand{ID: ipod.SwitchResModeVoiceRecorder})
	case ipod.SwitchGetMode:
		return b.reply(ctx, b.modeResponse())
	}
	b.logger.Debug("ignored switch mode command", zap.String("id", fmt.Sprintf("0x%04X", cmd.ID)))
	return nil
}

func (b *Bridge) handleSimpleRemote(ctx context.Context, cmd *ipod.SimpleRemoteCommand) error {
	a, ok := b.opts.Buttons.Lookup(cmd.Buttons)
	if !ok {
		b.logger.Debug("unmapped button", zap.Binary("buttons", cmd.Buttons))
		return nil
	}
	return b.Do(ctx, a)
}

func (b *Bridge) handleAir(ctx context.Context, cmd *ipod.AirCommand) error {
	switch cmd.ID {
	case ipod.AirNCU02:
		return b.reply(ctx, ipod.NewAir(ipod.AirNCU03, &ipod.BytesParam{Data: make([]byte, 8)}))
	case ipod.AirNCU09:
		b.mu.Lock()
		flag := b.flag
		b.mu.Unlock()
		return b.reply(ctx, ipod.NewAir(ipod.AirNCU0A, &ipod.Uint8Param{Value: flag}))
	case ipod.AirNCU0B:
		b.mu.Lock()
		b.flag = uint8Of(cmd.Params)
		b.mu.Unlock()
		return b.feedback(ctx, cmd.ID, ipod.ResultSuccess)

	case ipod.AirGetIpodType:
		return b.reply(ctx, ipod.NewAir(ipod.AirResIpodType, &ipod.Uint16Param{Value: b.opts.IpodType}))
	case ipod.AirGetIpodName:
		return b.reply(ctx, ipod.NewAir(ipod.AirResIpodName, &ipod.StringParam{Text: fitText(b.ipodName(), maxText)}))
	case ipod.AirGetScreenSize:
		return b.reply(ctx, ipod.NewAir(ipod.AirResScreenSize, &ipod.ScreenSizeResult{Width: b.opts.ScreenWidth, Height: b.opts.ScreenHeight}))

	case ipod.AirSwitchMainPlaylist, ipod.AirSwitchItem:
		return b.feedback(ctx, cmd.ID, ipod.ResultSuccess)
	case ipod.AirGetTypeCount:
		return b.reply(ctx, ipod.NewAir(ipod.AirResTypeCount, &ipod.Uint32Param{Value: b.typeCount(ipod.ItemType(uint8Of(cmd.Params)))}))
	case ipod.AirGetItemNames:
		return b.sendItemNames(ctx, cmd.Params)

	case ipod.AirGetTimeStatus:
		return b.reply(ctx, ipod.NewAir(ipod.AirResTimeStatus, b.timeStatus()))
	case ipod.AirGetPlaylistPos:
		return b.reply(ctx, ipod.NewAir(ipod.AirResPlaylistPos, &ipod.Uint32Param{Value: b.playlistPos()}))
	case ipod.AirGetPlaylistSize:
		return b.reply(ctx, ipod.NewAir(ipod.AirResPlaylistSize, &ipod.Uint32Param{Value: b.playlistSize()}))
	case ipod.AirGetSongTitle:
		return b.replyTrackString(ctx, ipod.AirResSongTitle, playback.TrackTitle)
	case ipod.AirGetSongArtist:
		return b.replyTrackString(ctx, ipod.AirResSongArtist, playback.TrackArtist)
	case ipod.AirGetSongAlbum:
		return b.replyTrackString(ctx, ipod.AirResSongAlbum, playback.TrackAlbum)

	case ipod.AirSetPollingMode:
		if uint8Of(cmd.Params) == ipod.PollingStart {
			b.startPolling()
		} else {
			b.stopPolling()
		}
		return b.feedback(ctx, cmd.ID, ipod.ResultSuccess)
	case ipod.AirPlaybackControl:
		code := uint8Of(cmd.Params)
		a, ok := playbackActions[code]
		if !ok {
			b.logger.Warn("unknown playback control", zap.Uint8("code", code))
			return b.feedback(ctx, cmd.ID, ipod.ResultFailure)
		}
		return b.doAndFeedback(ctx, cmd.ID, a)
	case ipod.AirExecPlaylistJump, ipod.AirPlaylistJump:
		return b.doAndFeedback(ctx, cmd.ID, b.jumpAction(uint32Of(cmd.Params)))

	case ipod.AirGetShuffleMode:
		return b.reply(ctx, ipod.NewAir(ipod.AirResShuffleMode, &ipod.Uint8Param{Value: b.state.Shuffle()}))
	case ipod.AirSetShuffleMode:
		b.state.SetShuffle(uint8Of(cmd.Params))
		return b.feedback(ctx, cmd.ID, ipod.ResultSuccess)
	case ipod.AirGetRepeatMode:
		return b.reply(ctx, ipod.NewAir(ipod.AirResRepeatMode, &ipod.Uint8Param{Value: b.state.Repeat()}))
	case ipod.AirSetRepeatMode:
		b.state.SetRepeat(uint8Of(cmd.Params))
		return b.feedback(ctx, cmd.ID, ipod.ResultSuccess)

	case ipod.AirUploadPicture:
		if blk, ok := cmd.Params.(*ipod.PictureControlBlock); ok && blk.Block == 0 {
			if head, err := blk.Head(); err == nil {
				b.logger.Debug("picture upload", zap.Uint16("width", head.Width), zap.Uint16("height", head.Height))
			}
		}
		return b.feedback(ctx, cmd.ID, ipod.ResultSuccess)
	}

	b.logger.Debug("ignored air command", zap.String("cmd", cmd.Name()))
	return nil
}

func (b *Bridge) doAndFeedback(ctx context.Context, id uint16, a Action) error {
	result := ipod.ResultSuccess
	err := b.Do(ctx, a)
	if err != nil {
		result = ipod.ResultFailure
	}
	if ferr := b.feedback(ctx, id, result); ferr != nil {
		return ferr
	}
	return err
}

// jumpAction 播放器只支持相邻切歌，跳转按方向折算为一次 next/previous
func (b *Bridge) jumpAction(index uint32) Action {
	pos := b.playlistPos()
	switch {
	case index > pos:
		return ActionNext
	case index < pos:
		return ActionPrevious
	}
	return ActionNone
}

func (b *Bridge) ipodName() string {
	if alias := b.state.Alias(); alias != "" {
		return alias
	}
	return b.opts.IpodName
}

func (b *Bridge) timeStatus() *ipod.TimeStatusResult {
	return &ipod.TimeStatusResult{
		Length:  b.state.TrackLength(),
		Elapsed: b.state.Elapsed(),
		Status:  uint8(b.state.Status()),
	}
}

func (b *Bridge) playlistPos() uint32 {
	if n, ok := b.state.TrackUint(playback.TrackNumber); ok && n > 0 {
		return n - 1
	}
	return 0
}

func (b *Bridge) playlistSize() uint32 {
	if n, ok := b.state.TrackUint(playback.TrackNumberOfTracks); ok && n > 0 {
		return n
	}
	return 1
}

func (b *Bridge) typeCount(t ipod.ItemType) uint32 {
	if t == ipod.ItemSong {
		return b.playlistSize()
	}
	return 1
}

func (b *Bridge) itemName(t ipod.ItemType, index uint32) string {
	switch t {
	case ipod.ItemPlaylist:
		return b.ipodName()
	case ipod.ItemArtist:
		return b.state.TrackString(playback.TrackArtist)
	case ipod.ItemAlbum:
		return b.state.TrackString(playback.TrackAlbum)
	case ipod.ItemGenre:
		return b.state.TrackString(playback.TrackGenre)
	case ipod.ItemSong:
		if index == b.playlistPos() {
			return b.state.TrackString(playback.TrackTitle)
		}
	}
	return ""
}

// sendItemNames 逐条应答 RES_ITEM_NAME，范围截断到该类型的条目数
func (b *Bridge) sendItemNames(ctx context.Context, params ipod.AirParam) error {
	rng, ok := params.(*ipod.ItemRangeParam)
	if !ok {
		return fmt.Errorf("get item names: unexpected params %T", params)
	}
	count := b.typeCount(rng.Type)
	for i := uint32(0); i < rng.Length && rng.Start+i < count; i++ {
		idx := rng.Start + i
		res := &ipod.ItemNameResult{Offset: idx, Name: fitText(b.itemName(rng.Type, idx), maxText-4)}
		if err := b.reply(ctx, ipod.NewAir(ipod.AirResItemName, res)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bridge) replyTrackString(ctx context.Context, id uint16, key string) error {
	text := fitText(b.state.TrackString(key), maxText)
	return b.reply(ctx, ipod.NewAir(id, &ipod.StringParam{Text: text}))
}

func uint8Of(p ipod.AirParam) uint8 {
	if v, ok := p.(*ipod.Uint8Param); ok {
		return v.Value
	}
	return 0
}

func uint32Of(p ipod.AirParam) uint32 {
	if v, ok := p.(*ipod.Uint32Param); ok {
		return v.Value
	}
	return 0
}
