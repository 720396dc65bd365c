package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests a new capture session.
func (c *Client) Start(req StartRequest) (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Captive.Start", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the active capture session to end.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Captive.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Captive.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionList returns persisted sessions, newest first.
func (c *Client) SessionList() (*SessionListResponse, error) {
	var resp SessionListResponse
	if err := c.client.Call("Captive.SessionList", SessionListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionDescribe returns details for a single session.
func (c *Client) SessionDescribe(id string) (*SessionDescribeResponse, error) {
	var resp SessionDescribeResponse
	if err := c.client.Call("Captive.SessionDescribe", SessionDescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transcript returns a session's captions.
func (c *Client) Transcript(sessionID string) (*TranscriptResponse, error) {
	var resp TranscriptResponse
	if err := c.client.Call("Captive.Transcript", TranscriptRequest{SessionID: sessionID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export writes a transcript file on the daemon side.
func (c *Client) Export(sessionID, format string) (*ExportResponse, error) {
	var resp ExportResponse
	req := ExportRequest{SessionID: sessionID, Format: format}
	if err := c.client.Call("Captive.Export", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Captive.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Captive.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
