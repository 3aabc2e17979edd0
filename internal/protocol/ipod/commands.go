package ipod

import "fmt"

// Command 帧命令体（按 mode 分派的变体）。mode 由具体类型决定，不在结构中重复保存。
type Command interface {
	Mode() Mode
	encode(w *Writer) error
}

// SwitchModeCommand 模式切换（mode 0x00）
type SwitchModeCommand struct {
	ID uint16
}

func (*SwitchModeCommand) Mode() Mode { return ModeSwitch }

func (c *SwitchModeCommand) encode(w *Writer) error { w.PutUint16(c.ID); return nil }

// VoiceRecorderCommand 录音模式（mode 0x01）
type VoiceRecorderCommand struct {
	ID uint16
}

func (*VoiceRecorderCommand) Mode() Mode { return ModeVoiceRecorder }

func (c *VoiceRecorderCommand) encode(w *Writer) error { w.PutUint16(c.ID); return nil }

// SimpleRemoteCommand 简易遥控（mode 0x02），按键位图 2~4 字节
type SimpleRemoteCommand struct {
	Buttons []byte
}

func (*SimpleRemoteCommand) Mode() Mode { return ModeSimpleRemote }

func (c *SimpleRemoteCommand) encode(w *Writer) error { w.PutBytes(c.Buttons); return nil }

var modeStatusMagic = []byte{0x00, 0x03}

// ModeStatusRequest 模式状态查询（mode 0x03），固定负载 00 03
type ModeStatusRequest struct{}

func (*ModeStatusRequest) Mode() Mode { return ModeRequestModeStatus }

func (*ModeStatusRequest) encode(w *Writer) error { w.PutBytes(modeStatusMagic); return nil }

// AirCommand 高级遥控（mode 0x04）：命令号 + 按命令号分派的参数
type AirCommand struct {
	ID     uint16
	Params AirParam
}

func (*AirCommand) Mode() Mode { return ModeAir }

func (c *AirCommand) encode(w *Writer) error {
	params := c.Params
	if params == nil {
		params = &EmptyParam{}
	}
	if err := airTable.Check(c.ID, params); err != nil {
		return err
	}
	w.PutUint16(c.ID)
	return params.encode(w)
}

// Name AiR 命令名称
func (c *AirCommand) Name() string { return airTable.Name(c.ID) }

func (c *AirCommand) String() string {
	return fmt.Sprintf("AirCommand{%s %+v}", c.Name(), c.Params)
}

// NewAir 构造 AiR 命令
func NewAir(id uint16, params AirParam) *AirCommand {
	return &AirCommand{ID: id, Params: params}
}

// Feedback 构造 FEEDBACK 应答
func Feedback(result uint8, command uint16) *AirCommand {
	return NewAir(AirFeedback, &CommandResultParam{Result: result, Command: command})
}

func decodeSwitchMode(r *Reader) (Command, error) {
	id, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	return &SwitchModeCommand{ID: id}, nil
}

func decodeVoiceRecorder(r *Reader) (Command, error) {
	id, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	return &VoiceRecorderCommand{ID: id}, nil
}

func decodeSimpleRemote(r *Reader) (Command, error) {
	return &SimpleRemoteCommand{Buttons: r.Rest()}, nil
}

func decodeModeStatus(r *Reader) (Command, error) {
	if err := r.Magic(modeStatusMagic); err != nil {
		return nil, err
	}
	return &ModeStatusRequest{}, nil
}

func decodeAir(r *Reader) (Command, error) {
	id, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	params, err := airTable.Decode(id, r)
	if err != nil {
		return nil, err
	}
	return &AirCommand{ID: id, Params: params}, nil
}

func acceptsCommand[T Command](c Command) bool {
	_, ok := c.(T)
	return ok
}

// modeTable mode -> 命令布局
var modeTable = NewTable("mode", map[Mode]Layout[Command]{
	ModeSwitch:            {Name: "SWITCH_MODE", Decode: decodeSwitchMode, Accepts: acceptsCommand[*SwitchModeCommand]},
	ModeVoiceRecorder:     {Name: "VOICE_RECORDER", Decode: decodeVoiceRecorder, Accepts: acceptsCommand[*VoiceRecorderCommand]},
	ModeSimpleRemote:      {Name: "SIMPLE_REMOTE", Decode: decodeSimpleRemote, Accepts: acceptsCommand[*SimpleRemoteCommand]},
	ModeRequestModeStatus: {Name: "REQUEST_MODE_STATUS", Decode: decodeModeStatus, Accepts: acceptsCommand[*ModeStatusRequest]},
	ModeAir:               {Name: "AIR", Decode: decodeAir, Accepts: acceptsCommand[*AirCommand]},
})
