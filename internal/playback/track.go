package playback

// 曲目属性键（BlueZ MediaPlayer1.Track）
const (
	TrackTitle          = "Title"
	TrackArtist         = "Artist"
	TrackAlbum          = "Album"
	TrackGenre          = "Genre"
	TrackDuration       = "Duration"
	TrackNumber         = "TrackNumber"
	TrackNumberOfTracks = "NumberOfTracks"
)

// SetTrack 替换当前曲目元数据（浅拷贝）
func (s *State) SetTrack(track map[string]any) {
	cp := make(map[string]any, len(track))
	for k, v := range track {
		cp[k] = v
	}
	s.mu.Lock()
	s.track = cp
	s.mu.Unlock()
}

// Track 当前曲目元数据副本
func (s *State) Track() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(map[string]any, len(s.track))
	for k, v := range s.track {
		cp[k] = v
	}
	return cp
}

// TrackString 字符串属性，缺失或类型不符时返回空串
func (s *State) TrackString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.track[key].(string)
	return v
}

// TrackUint 数值属性
func (s *State) TrackUint(key string) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ToUint32(s.track[key])
}

// TrackLength 曲目总长（毫秒），无曲目时为 0
func (s *State) TrackLength() uint32 {
	v, _ := s.TrackUint(TrackDuration)
	return v
}

// ToUint32 将 D-Bus 解出的各类整数收敛为 uint32
func ToUint32(v any) (uint32, bool) {
	switch n := v.(type) {
	case uint32:
		return n, true
	case uint8:
		return uint32(n), true
	case uint16:
		return uint32(n), true
	case uint64:
		return uint32(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	case int16:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	case int32:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	}
	return 0, false
}
