package dap

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ctagard/launch-mcp/internal/config"
	"github.com/ctagard/launch-mcp/internal/diag"
	"github.com/ctagard/launch-mcp/internal/errors"
	"github.com/ctagard/launch-mcp/pkg/types"
)

// connectRetryInterval is the pause between connection attempts while the
// freshly started target opens its debug port.
const connectRetryInterval = 200 * time.Millisecond

// Service connects the trigger to a running target's debug port. Process
// handles are derived from the resolved port alone; the PID of whatever
// the launch step started never enters the attach path.
type Service struct {
	host           string
	connectRetries int
	requestTimeout time.Duration
	log            *diag.Entry
}

// NewService creates an attach service from the persisted attach settings
func NewService(cfg config.AttachConfig) *Service {
	return &Service{
		host:           cfg.Host,
		connectRetries: cfg.ConnectRetries,
		requestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		log:            diag.Named("attach"),
	}
}

// CreateProcessHandle builds the handle the debugger attaches to. The
// handle identifies the target by port, not PID: launching via a file
// association may leave us without a useful PID, so the debug port is the
// one piece of identity the invocation can rely on.
func (s *Service) CreateProcessHandle(port int) types.ProcessHandle {
	return types.ProcessHandle{
		ID:      uuid.New().String(),
		Port:    port,
		Address: net.JoinHostPort(s.host, strconv.Itoa(port)),
	}
}

// Attach runs the DAP handshake against the handle's address and detaches
// again, leaving the target running. The handshake is adapter-agnostic:
// initialize, attach in remote mode, then the configuration phase for
// adapters that ask for one.
func (s *Service) Attach(ctx context.Context, handle types.ProcessHandle) error {
	transport, err := s.connect(ctx, handle.Address)
	if err != nil {
		return errors.ConnectFailed(handle.Address, err)
	}

	client := NewClient(transport, s.requestTimeout)
	defer func() {
		if cerr := client.Close(); cerr != nil {
			s.log.Debugf("closing DAP client: %v", cerr)
		}
	}()

	if _, err := client.Initialize("launch-mcp", "Launch MCP"); err != nil {
		return errors.AttachFailed(handle.Port, err)
	}

	attachArgs := map[string]interface{}{
		"mode": "remote",
		"host": s.host,
		"port": handle.Port,
	}

	respCh, err := client.AttachAsync(attachArgs)
	if err != nil {
		return errors.AttachFailed(handle.Port, err)
	}

	// Adapters that announce configurationDone support hold the attach
	// response until the configuration phase is finished.
	if client.Capabilities().SupportsConfigurationDoneRequest {
		if err := client.WaitInitialized(s.requestTimeout); err != nil {
			return errors.AttachTimeout("waiting for initialized event", int(s.requestTimeout/time.Second))
		}
		if err := client.ConfigurationDone(); err != nil {
			return errors.AttachFailed(handle.Port, err)
		}
	}

	if _, err := client.WaitForAttachResponse(respCh, s.requestTimeout); err != nil {
		return errors.AttachFailed(handle.Port, err)
	}

	// Detach without terminating: the invocation is over, the target keeps
	// running with its debug port open.
	if err := client.Disconnect(false); err != nil {
		s.log.Warnf("disconnect after attach failed: %v", err)
	}

	s.log.WithFields(diag.Fields{"handle": handle.ID, "port": handle.Port}).Info("debugger attached")

	return nil
}

// connect dials the debug port, retrying while the target finishes its
// startup and opens the listener.
func (s *Service) connect(ctx context.Context, address string) (*Transport, error) {
	retries := s.connectRetries
	if retries < 1 {
		retries = 1
	}

	var err error
	for i := 0; i < retries; i++ {
		var transport *Transport
		transport, err = NewTCPTransport(address)
		if err == nil {
			return transport, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryInterval):
		}
	}

	return nil, err
}
