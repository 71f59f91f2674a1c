// Package client is a typed HTTP client for the introspection API. It
// authenticates with the server's token endpoint and caches the bearer token
// until shortly before expiry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/Desperationis/penguin/domain"
	"github.com/Desperationis/penguin/rest"
)

const tokenCacheKey = "bearer-token"

func New(baseURL string, clientID string, publicKeyPEM string) *Client {
	return &Client{
		Client:         http.DefaultClient,
		baseURL:        baseURL,
		clientID:       clientID,
		tokenPublicKey: publicKeyPEM,
		tokenCache:     cache.New[string, string](),
	}
}

type Client struct {
	*http.Client

	baseURL        string
	clientID       string
	tokenPublicKey string
	tokenCache     *cache.Cache[string, string]
}

// ListNamespaceProcesses lists the processes co-resident in the PID
// namespace of the given reference host PID.
func (c *Client) ListNamespaceProcesses(ctx context.Context, refHostPID int) ([]domain.NamespaceProcess, error) {
	var resp rest.SuccessResponse[rest.ListNamespaceProcessesResponse]
	endpoint := fmt.Sprintf("%s/api/v1/namespaces/%d/processes", c.baseURL, refHostPID)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("server returned empty namespace process list")
	}

	procs := make([]domain.NamespaceProcess, 0, len(resp.Data.Processes))
	for _, p := range resp.Data.Processes {
		procs = append(procs, domain.NamespaceProcess{PID: p.PID, Name: p.Name})
	}
	return procs, nil
}

// ResolveContainerCgroup returns the container's cgroup v2 path.
func (c *Client) ResolveContainerCgroup(ctx context.Context, containerID string) (string, error) {
	var resp rest.SuccessResponse[rest.GetContainerCgroupResponse]
	endpoint := fmt.Sprintf("%s/api/v1/containers/%s/cgroup", c.baseURL, containerID)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return "", err
	}
	if resp.Data == nil {
		return "", fmt.Errorf("server returned empty cgroup path")
	}
	return resp.Data.CgroupPath, nil
}

// CollectContainerPIDs returns the container's host PIDs.
func (c *Client) CollectContainerPIDs(ctx context.Context, containerID string) ([]int, error) {
	var resp rest.SuccessResponse[rest.GetContainerPIDsResponse]
	endpoint := fmt.Sprintf("%s/api/v1/containers/%s/processes", c.baseURL, containerID)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("server returned empty PID list")
	}
	return resp.Data.HostPIDs, nil
}

// FindContainerInit returns the container's init lookup outcome.
func (c *Client) FindContainerInit(ctx context.Context, containerID string) (domain.ContainerInit, error) {
	var resp rest.SuccessResponse[rest.GetContainerInitResponse]
	endpoint := fmt.Sprintf("%s/api/v1/containers/%s/init", c.baseURL, containerID)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return domain.ContainerInit{}, err
	}
	if resp.Data == nil {
		return domain.ContainerInit{}, fmt.Errorf("server returned empty init response")
	}
	return domain.ContainerInit{HostPID: resp.Data.HostPID, Found: resp.Data.Found}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	token, err := c.GetToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("introspection server returned non-OK status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) GetToken(ctx context.Context) (string, error) {
	if token, ok := c.tokenCache.Get(tokenCacheKey); ok {
		return token, nil
	}

	req := rest.TokenRequest{
		PublicKey: c.tokenPublicKey,
		ClientID:  c.clientID,
	}
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	endpoint := c.baseURL + "/api/v1/auth/token"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("introspection server returned non-OK status: %s", resp.Status)
	}
	var tokenResp rest.SuccessResponse[rest.TokenResponse]
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	if tokenResp.Data == nil || tokenResp.Data.Token == "" {
		return "", fmt.Errorf("introspection server returned empty token")
	}

	// Refresh a minute before the server-side expiry.
	ttl := tokenResp.Data.ExpiredAt - time.Now().Unix() - 60
	if ttl > 0 {
		c.tokenCache.Set(tokenCacheKey, tokenResp.Data.Token, cache.WithExpiration(time.Duration(ttl)*time.Second))
	}
	return tokenResp.Data.Token, nil
}
