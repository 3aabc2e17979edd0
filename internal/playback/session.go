package playback

// AiR 会话镜像状态：随机/循环模式、轮询开关、高级遥控模式

// Shuffle 随机模式（ipod.Shuffle*）
func (s *State) Shuffle() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuffle
}

// SetShuffle 更新随机模式
func (s *State) SetShuffle(v uint8) {
	s.mu.Lock()
	s.shuffle = v
	s.mu.Unlock()
}

// Repeat 循环模式（ipod.Repeat*）
func (s *State) Repeat() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repeat
}

// SetRepeat 更新循环模式
func (s *State) SetRepeat(v uint8) {
	s.mu.Lock()
	s.repeat = v
	s.mu.Unlock()
}

// Polling 是否处于进度轮询模式
func (s *State) Polling() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.polling
}

// SetPolling 开关进度轮询，返回是否发生变化
func (s *State) SetPolling(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.polling != on
	s.polling = on
	return changed
}

// AdvancedRemote 主机是否已切换到高级遥控模式
func (s *State) AdvancedRemote() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remote
}

// SetAdvancedRemote 记录模式切换
func (s *State) SetAdvancedRemote(on bool) {
	s.mu.Lock()
	s.remote = on
	s.mu.Unlock()
}
