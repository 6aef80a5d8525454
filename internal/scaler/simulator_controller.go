package scaler

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// ReplicaChange is one applied SetReplicas call.
type ReplicaChange struct {
	Deployment models.DeploymentRef
	From       int
	To         int
	At         time.Time
}

type SimulatorCallbacks struct {
	OnScaled func(change ReplicaChange)
	OnReady  func(ref models.DeploymentRef, ready int)
}

// SimulatorController keeps replica counts in memory. Desired replicas
// change immediately; ready replicas follow after ProvisionDelay.
type SimulatorController struct {
	mu             sync.Mutex
	desired        map[string]int
	ready          map[string]int
	initial        int
	provisionDelay time.Duration
	callbacks      SimulatorCallbacks
	setCalls       int
	changes        []ReplicaChange
	getErr, setErr error
}

type SimulatorConfig struct {
	InitialReplicas int
	ProvisionDelay  time.Duration
	Callbacks       SimulatorCallbacks
}

func NewSimulatorController(cfg SimulatorConfig) *SimulatorController {
	if cfg.InitialReplicas <= 0 {
		cfg.InitialReplicas = 2
	}

	return &SimulatorController{
		desired:        make(map[string]int),
		ready:          make(map[string]int),
		initial:        cfg.InitialReplicas,
		provisionDelay: cfg.ProvisionDelay,
		callbacks:      cfg.Callbacks,
	}
}

func (s *SimulatorController) Name() string { return "simulator" }

func (s *SimulatorController) GetReplicas(ctx context.Context, ref models.DeploymentRef) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return 0, s.getErr
	}
	return s.desiredLocked(ref), nil
}

func (s *SimulatorController) SetReplicas(ctx context.Context, ref models.DeploymentRef, replicas int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	if replicas < 0 {
		return ErrInvalidTarget
	}

	from := s.desiredLocked(ref)
	s.desired[ref.Key()] = replicas
	change := ReplicaChange{Deployment: ref, From: from, To: replicas, At: time.Now()}
	s.changes = append(s.changes, change)

	logger.WithDeployment(ref.String()).Infof("Simulated scale: %d -> %d replicas", from, replicas)

	if s.callbacks.OnScaled != nil {
		go s.callbacks.OnScaled(change)
	}

	if s.provisionDelay <= 0 {
		s.ready[ref.Key()] = replicas
	} else {
		go s.settle(ref, replicas)
	}
	return nil
}

func (s *SimulatorController) settle(ref models.DeploymentRef, replicas int) {
	time.Sleep(s.provisionDelay)

	s.mu.Lock()
	if s.desired[ref.Key()] != replicas {
		s.mu.Unlock()
		return
	}
	s.ready[ref.Key()] = replicas
	onReady := s.callbacks.OnReady
	s.mu.Unlock()

	if onReady != nil {
		onReady(ref, replicas)
	}
}

// ReadyReplicas returns the replicas that finished provisioning.
func (s *SimulatorController) ReadyReplicas(ref models.DeploymentRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.ready[ref.Key()]; ok {
		return n
	}
	return s.desiredLocked(ref)
}

// Seed sets the replica count without counting as a mutating call.
func (s *SimulatorController) Seed(ref models.DeploymentRef, replicas int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desired[ref.Key()] = replicas
	s.ready[ref.Key()] = replicas
}

func (s *SimulatorController) SetErrors(getErr, setErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr, s.setErr = getErr, setErr
}

// SetCalls counts every SetReplicas invocation, failed ones included.
func (s *SimulatorController) SetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}

func (s *SimulatorController) Changes() []ReplicaChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ReplicaChange(nil), s.changes...)
}

func (s *SimulatorController) desiredLocked(ref models.DeploymentRef) int {
	if n, ok := s.desired[ref.Key()]; ok {
		return n
	}
	return s.initial
}
