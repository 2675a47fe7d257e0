package dap

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/go-dap"

	"github.com/ctagard/launch-mcp/internal/diag"
)

// defaultRequestTimeout bounds each request/response exchange when the
// caller does not supply a timeout of its own.
const defaultRequestTimeout = 10 * time.Second

// Client drives the attach handshake against a DAP server. It is scoped to
// a single invocation: connect, initialize, attach, configure, disconnect.
type Client struct {
	transport *Transport

	// Response handling
	pendingRequests map[int]chan dap.Message
	mu              sync.Mutex

	// Capabilities from initialize response
	capabilities dap.Capabilities

	// Initialization synchronization
	initialized     chan struct{}
	initializedOnce sync.Once

	requestTimeout time.Duration

	log *diag.Entry

	// Context for shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClient creates a new DAP client with the given transport. A
// non-positive requestTimeout falls back to the package default.
func NewClient(transport *Transport, requestTimeout time.Duration) *Client {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		transport:       transport,
		pendingRequests: make(map[int]chan dap.Message),
		initialized:     make(chan struct{}),
		requestTimeout:  requestTimeout,
		log:             diag.Named("dap"),
		ctx:             ctx,
		cancel:          cancel,
	}

	// Start the message reader goroutine
	c.wg.Add(1)
	go c.readLoop()

	return c
}

// readLoop continuously reads messages from the transport
func (c *Client) readLoop() {
	defer c.wg.Done()

	consecutiveErrors := 0
	const maxConsecutiveErrors = 5

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		msg, err := c.transport.Receive()
		if err != nil {
			// Check if we're shutting down
			select {
			case <-c.ctx.Done():
				return
			default:
				consecutiveErrors++
				c.log.Warnf("transport error (attempt %d/%d): %v", consecutiveErrors, maxConsecutiveErrors, err)

				// Too many consecutive errors means the connection is gone;
				// stop rather than spin on a dead transport.
				if consecutiveErrors >= maxConsecutiveErrors {
					c.log.Warn("too many consecutive transport errors, stopping read loop")
					return
				}
				continue
			}
		}

		// Reset error counter on successful read
		consecutiveErrors = 0
		c.handleMessage(msg)
	}
}

// handleMessage routes incoming messages to the appropriate handler
func (c *Client) handleMessage(msg dap.Message) {
	var requestSeq int
	var isResponse bool

	switch m := msg.(type) {
	case *dap.InitializeResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.AttachResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.ConfigurationDoneResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.DisconnectResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.ErrorResponse:
		requestSeq, isResponse = m.RequestSeq, true
	case *dap.InitializedEvent:
		// Signal that the adapter is ready for configuration requests
		c.initializedOnce.Do(func() {
			close(c.initialized)
		})
		return
	}

	if isResponse {
		c.mu.Lock()
		if ch, ok := c.pendingRequests[requestSeq]; ok {
			ch <- msg
			delete(c.pendingRequests, requestSeq)
		}
		c.mu.Unlock()
		return
	}

	// Other events (output, process, thread, ...) are irrelevant to a
	// trigger invocation: the target keeps running and we detach right
	// after the handshake.
	c.log.Debugf("ignoring message: %T", msg)
}

// sendRequest sends a request and waits for the response
func (c *Client) sendRequest(req dap.RequestMessage, timeout time.Duration) (dap.Message, error) {
	seq := c.transport.NextSeq()

	// Set the sequence number on the request
	switch r := req.(type) {
	case *dap.InitializeRequest:
		r.Seq = seq
	case *dap.AttachRequest:
		r.Seq = seq
	case *dap.ConfigurationDoneRequest:
		r.Seq = seq
	case *dap.DisconnectRequest:
		r.Seq = seq
	}

	// Create response channel
	respCh := make(chan dap.Message, 1)
	c.mu.Lock()
	c.pendingRequests[seq] = respCh
	c.mu.Unlock()

	// Send the request
	if err := c.transport.Send(req); err != nil {
		c.mu.Lock()
		delete(c.pendingRequests, seq)
		c.mu.Unlock()
		return nil, err
	}

	// Wait for response
	select {
	case resp := <-respCh:
		return resp, nil
	case <-time.After(timeout):
		c.mu.Lock()
		delete(c.pendingRequests, seq)
		c.mu.Unlock()
		return nil, fmt.Errorf("request timeout")
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

// Initialize sends the initialize request and stores the adapter's
// capabilities for the rest of the handshake.
func (c *Client) Initialize(clientID, clientName string) (*dap.InitializeResponse, error) {
	req := &dap.InitializeRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request"},
			Command:         "initialize",
		},
		Arguments: dap.InitializeRequestArguments{
			ClientID:                     clientID,
			ClientName:                   clientName,
			AdapterID:                    "launch-mcp",
			Locale:                       "en-US",
			LinesStartAt1:                true,
			ColumnsStartAt1:              true,
			PathFormat:                   "path",
			SupportsVariableType:         true,
			SupportsVariablePaging:       true,
			SupportsRunInTerminalRequest: false,
		},
	}

	resp, err := c.sendRequest(req, c.requestTimeout)
	if err != nil {
		return nil, err
	}

	if er, ok := resp.(*dap.ErrorResponse); ok {
		return nil, responseError("initialize", er)
	}

	initResp, ok := resp.(*dap.InitializeResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", resp)
	}

	if !initResp.Success {
		return nil, fmt.Errorf("initialize failed: %s", initResp.Message)
	}

	c.capabilities = initResp.Body

	return initResp, nil
}

// Capabilities returns the capabilities reported by the initialize response
func (c *Client) Capabilities() dap.Capabilities {
	return c.capabilities
}

// WaitInitialized waits for the initialized event with a timeout
func (c *Client) WaitInitialized(timeout time.Duration) error {
	select {
	case <-c.initialized:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for initialized event")
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// AttachAsync sends an attach request without waiting for the response and
// returns a channel that will receive it. Some adapters hold the attach
// response until configurationDone arrives, so the caller must be free to
// finish the configuration phase while the request is in flight.
func (c *Client) AttachAsync(args map[string]interface{}) (chan dap.Message, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attach args: %w", err)
	}

	seq := c.transport.NextSeq()

	req := &dap.AttachRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request", Seq: seq},
			Command:         "attach",
		},
		Arguments: argsJSON,
	}

	// Create response channel
	respCh := make(chan dap.Message, 1)
	c.mu.Lock()
	c.pendingRequests[seq] = respCh
	c.mu.Unlock()

	// Send the request
	if err := c.transport.Send(req); err != nil {
		c.mu.Lock()
		delete(c.pendingRequests, seq)
		c.mu.Unlock()
		return nil, err
	}

	return respCh, nil
}

// WaitForAttachResponse waits for the attach response on the channel
func (c *Client) WaitForAttachResponse(respCh chan dap.Message, timeout time.Duration) (*dap.AttachResponse, error) {
	select {
	case resp := <-respCh:
		if er, ok := resp.(*dap.ErrorResponse); ok {
			return nil, responseError("attach", er)
		}
		attachResp, ok := resp.(*dap.AttachResponse)
		if !ok {
			return nil, fmt.Errorf("unexpected response type: %T", resp)
		}
		if !attachResp.Success {
			return nil, fmt.Errorf("attach failed: %s", attachResp.Message)
		}
		return attachResp, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("attach response timeout")
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

// ConfigurationDone signals that configuration is complete
func (c *Client) ConfigurationDone() error {
	req := &dap.ConfigurationDoneRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request"},
			Command:         "configurationDone",
		},
	}

	resp, err := c.sendRequest(req, c.requestTimeout)
	if err != nil {
		return err
	}

	if er, ok := resp.(*dap.ErrorResponse); ok {
		return responseError("configurationDone", er)
	}

	configResp, ok := resp.(*dap.ConfigurationDoneResponse)
	if !ok {
		return fmt.Errorf("unexpected response type: %T", resp)
	}

	if !configResp.Success {
		return fmt.Errorf("configuration done failed: %s", configResp.Message)
	}

	return nil
}

// Disconnect ends the debug session. With terminateDebuggee false the
// target process is left running.
func (c *Client) Disconnect(terminateDebuggee bool) error {
	req := &dap.DisconnectRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Type: "request"},
			Command:         "disconnect",
		},
		Arguments: &dap.DisconnectArguments{
			TerminateDebuggee: terminateDebuggee,
		},
	}

	resp, err := c.sendRequest(req, c.requestTimeout)
	if err != nil {
		return err
	}

	if er, ok := resp.(*dap.ErrorResponse); ok {
		return responseError("disconnect", er)
	}

	if _, ok := resp.(*dap.DisconnectResponse); !ok {
		return fmt.Errorf("unexpected response type: %T", resp)
	}

	return nil
}

// Close shuts down the client and its transport. The transport is closed
// before waiting on the read loop so a read blocked on an idle connection
// cannot hold up shutdown.
func (c *Client) Close() error {
	c.cancel()
	err := c.transport.Close()
	c.wg.Wait()
	return err
}

// responseError formats an adapter error response, preferring the detailed
// message from the body when present.
func responseError(command string, resp *dap.ErrorResponse) error {
	if resp.Body.Error != nil && resp.Body.Error.Format != "" {
		return fmt.Errorf("%s failed: %s", command, resp.Body.Error.Format)
	}
	return fmt.Errorf("%s failed: %s", command, resp.Message)
}
