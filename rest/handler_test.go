package rest_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Desperationis/penguin/domain"
	"github.com/Desperationis/penguin/rest"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

const testToken = "test-token"

// fakeService serves canned resolver results so handler behavior can be
// tested without a proc filesystem.
type fakeService struct {
	processes []domain.NamespaceProcess
	cgroup    string
	pids      []int
	init      domain.ContainerInit
	err       error
}

func (f *fakeService) ListNamespaceProcesses(ctx context.Context, refHostPID int) ([]domain.NamespaceProcess, error) {
	return f.processes, f.err
}

func (f *fakeService) ResolveContainerCgroup(ctx context.Context, containerID string) (string, error) {
	return f.cgroup, f.err
}

func (f *fakeService) CollectContainerPIDs(ctx context.Context, containerID string) ([]int, error) {
	return f.pids, f.err
}

func (f *fakeService) FindContainerInit(ctx context.Context, containerID string) (domain.ContainerInit, error) {
	return f.init, f.err
}

func (f *fakeService) VerifyAndGenerateToken(ctx context.Context, clientID string, publicKey string) (string, int64, error) {
	if publicKey != "good-key" {
		return "", 0, fmt.Errorf("public key verification failed")
	}
	return testToken, time.Now().Add(time.Hour).Unix(), nil
}

func (f *fakeService) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	if tokenString != testToken {
		return "", fmt.Errorf("invalid token")
	}
	return "test-client", nil
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

type HandlerTestSuite struct {
	suite.Suite
	Svc    *fakeService
	Engine *echo.Echo
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.Svc = &fakeService{}
	handler, err := rest.NewHandler(rest.Params{Svc: suite.Svc})
	suite.Require().NoError(err)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	suite.Require().NoError(handler.SetupRoutes(e))
	suite.Engine = e
}

func (suite *HandlerTestSuite) request(method, target string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	suite.Engine.ServeHTTP(rec, req)
	return rec
}

func (suite *HandlerTestSuite) JSONDecode(r *httptest.ResponseRecorder, dst any) {
	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(dst)
	suite.Require().NoError(err, "Failed to decode JSON response")
}

func (suite *HandlerTestSuite) TestHealthCheck() {
	rec := suite.request(http.MethodGet, "/health", false)

	suite.Equal(http.StatusOK, rec.Code)
	var resp map[string]any
	suite.JSONDecode(rec, &resp)
	suite.Equal("healthy", resp["status"].(string))
}

func (suite *HandlerTestSuite) TestListNamespaceProcesses() {
	suite.Svc.processes = []domain.NamespaceProcess{
		{PID: 1, Name: "init"},
		{PID: 7, Name: "worker"},
	}
	rec := suite.request(http.MethodGet, "/api/v1/namespaces/1420372/processes", true)

	suite.Equal(http.StatusOK, rec.Code)
	var resp rest.SuccessResponse[rest.ListNamespaceProcessesResponse]
	suite.JSONDecode(rec, &resp)
	suite.True(resp.Success)
	suite.Require().NotNil(resp.Data)
	suite.Equal(1420372, resp.Data.ReferenceHostPID)
	suite.Require().Len(resp.Data.Processes, 2)
	suite.Equal("init", resp.Data.Processes[0].Name)
}

func (suite *HandlerTestSuite) TestListNamespaceProcessesBadPID() {
	rec := suite.request(http.MethodGet, "/api/v1/namespaces/bogus/processes", true)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlerTestSuite) TestMissingTokenRejected() {
	rec := suite.request(http.MethodGet, "/api/v1/containers/94860d9dd294/processes", false)
	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *HandlerTestSuite) TestGetContainerPIDs() {
	suite.Svc.pids = []int{10, 11, 12}
	rec := suite.request(http.MethodGet, "/api/v1/containers/94860d9dd294/processes", true)

	suite.Equal(http.StatusOK, rec.Code)
	var resp rest.SuccessResponse[rest.GetContainerPIDsResponse]
	suite.JSONDecode(rec, &resp)
	suite.Require().NotNil(resp.Data)
	suite.Equal([]int{10, 11, 12}, resp.Data.HostPIDs)
	suite.Equal("94860d9dd294", resp.Data.ContainerID)
}

func (suite *HandlerTestSuite) TestGetContainerCgroupNotFound() {
	suite.Svc.err = fmt.Errorf("container id %q: %w", "deadbeef", domain.ErrContainerNotFound)
	rec := suite.request(http.MethodGet, "/api/v1/containers/deadbeef/cgroup", true)

	suite.Equal(http.StatusNotFound, rec.Code)
	var resp rest.ErrorResponse
	suite.JSONDecode(rec, &resp)
	suite.False(resp.Success)
}

func (suite *HandlerTestSuite) TestGetContainerCgroupUnsupportedHost() {
	suite.Svc.err = domain.ErrCgroupV2Unsupported
	rec := suite.request(http.MethodGet, "/api/v1/containers/deadbeef/cgroup", true)
	suite.Equal(http.StatusNotImplemented, rec.Code)
}

func (suite *HandlerTestSuite) TestGetContainerInitNotFoundIsOK() {
	suite.Svc.init = domain.ContainerInit{}
	rec := suite.request(http.MethodGet, "/api/v1/containers/94860d9dd294/init", true)

	suite.Equal(http.StatusOK, rec.Code, "a missing init is a valid outcome, not an error")
	var resp rest.SuccessResponse[rest.GetContainerInitResponse]
	suite.JSONDecode(rec, &resp)
	suite.Require().NotNil(resp.Data)
	suite.False(resp.Data.Found)
}

func (suite *HandlerTestSuite) TestGenToken() {
	body := `{"public_key":"good-key","client_id":"test-client"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	suite.Engine.ServeHTTP(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
	var resp rest.SuccessResponse[rest.TokenResponse]
	suite.JSONDecode(rec, &resp)
	suite.Require().NotNil(resp.Data)
	suite.Equal(testToken, resp.Data.Token)
}

func (suite *HandlerTestSuite) TestGenTokenBadKey() {
	body := `{"public_key":"bad-key","client_id":"test-client"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	suite.Engine.ServeHTTP(rec, req)

	suite.Equal(http.StatusUnauthorized, rec.Code)
}
