package playback

// Snapshot 对外只读视图（HTTP 状态接口、正在播放推送）
type Snapshot struct {
	Status         string `json:"status"`
	Connected      bool   `json:"connected"`
	Device         string `json:"device,omitempty"`
	Title          string `json:"title,omitempty"`
	Artist         string `json:"artist,omitempty"`
	Album          string `json:"album,omitempty"`
	LengthMs       uint32 `json:"length_ms"`
	ElapsedMs      uint32 `json:"elapsed_ms"`
	Anchored       bool   `json:"anchored"`
	Shuffle        uint8  `json:"shuffle"`
	Repeat         uint8  `json:"repeat"`
	Polling        bool   `json:"polling"`
	AdvancedRemote bool   `json:"advanced_remote"`
}

// Snapshot 在同一把锁内取全部字段
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	str := func(k string) string { v, _ := s.track[k].(string); return v }
	length, _ := ToUint32(s.track[TrackDuration])
	return Snapshot{
		Status:         s.status.String(),
		Connected:      s.connected,
		Device:         s.alias,
		Title:          str(TrackTitle),
		Artist:         str(TrackArtist),
		Album:          str(TrackAlbum),
		LengthMs:       length,
		ElapsedMs:      s.elapsedAt(s.clock.Now()),
		Anchored:       s.elapsed.Anchored(),
		Shuffle:        s.shuffle,
		Repeat:         s.repeat,
		Polling:        s.polling,
		AdvancedRemote: s.remote,
	}
}
