package service

import (
	"context"
	"crypto/rsa"
	"fmt"

	"github.com/Desperationis/penguin/config"
	"github.com/Desperationis/penguin/domain"
	"github.com/Desperationis/penguin/pkg/logger"
	"github.com/Desperationis/penguin/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Params struct {
	fx.In
	Probe       config.ProbeConfig
	TokenConfig config.TokenConfig
}

func NewService(params Params) (*Service, error) {
	pemData := params.TokenConfig.RsaPrivateKeyPem.Value()
	if pemData == "" {
		var err error
		pemData, _, err = util.GenerateRSAKeyPair(2048)
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral token key: %v", err)
		}
		logger.Logger(context.Background()).Warn().
			Msg("no token key configured, generated an ephemeral RSA key; issued tokens will not survive a restart")
	}
	privateKey, err := util.InitRSAPrivateKey(pemData)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT private key: %v", err)
	}

	procRoot := params.Probe.ProcRoot
	if procRoot == "" {
		procRoot = config.DefaultProcRoot
	}
	cgroupRoot := params.Probe.CgroupRoot
	if cgroupRoot == "" {
		cgroupRoot = config.DefaultCgroupRoot
	}

	svc := &Service{
		procRoot:      procRoot,
		cgroupRoot:    cgroupRoot,
		metrics:       NewScanMetrics(util.GetMachineID()),
		jwtPrivateKey: privateKey,
		tokenConfig:   params.TokenConfig,
	}

	err = prometheus.Register(svc.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to register scan metrics collector: %v", err)
	}
	return svc, nil
}

// NewProbe builds a resolver bound to the given pseudo-filesystem roots,
// without the token signer or the metrics registration. It backs the
// one-shot CLI lookups, which have no server lifecycle.
func NewProbe(procRoot, cgroupRoot string) *Service {
	if procRoot == "" {
		procRoot = config.DefaultProcRoot
	}
	if cgroupRoot == "" {
		cgroupRoot = config.DefaultCgroupRoot
	}
	return &Service{
		procRoot:   procRoot,
		cgroupRoot: cgroupRoot,
	}
}

// Service resolves container process membership from the proc and cgroup
// pseudo-filesystems. It holds no state between calls; every lookup is a
// fresh point-in-time snapshot of the process table.
type Service struct {
	procRoot      string
	cgroupRoot    string
	metrics       *ScanMetrics
	jwtPrivateKey *rsa.PrivateKey
	tokenConfig   config.TokenConfig
}

var _ domain.Service = (*Service)(nil)
