package service

import "sync/atomic"

// HealthStatus readiness 的明細
type HealthStatus struct {
	Listener bool `json:"listener"`
	Gateway  bool `json:"gateway"`
}

// HealthService 兩個單元（listener、gateway）都在運作時才算 ready
type HealthService struct {
	live     atomic.Bool
	listener atomic.Bool
	gateway  atomic.Bool
}

func NewHealthService() *HealthService {
	s := &HealthService{}
	s.live.Store(true)
	return s
}

func (s *HealthService) SetListenerReady(v bool) {
	s.listener.Store(v)
}

func (s *HealthService) SetGatewayReady(v bool) {
	s.gateway.Store(v)
}

// SetReady 同時設定兩個單元，關閉流程使用
func (s *HealthService) SetReady(v bool) {
	s.listener.Store(v)
	s.gateway.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	return s.listener.Load() && s.gateway.Load()
}

func (s *HealthService) Status() HealthStatus {
	return HealthStatus{
		Listener: s.listener.Load(),
		Gateway:  s.gateway.Load(),
	}
}
