package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/OCAP2/fleet/internal/config"
	"github.com/OCAP2/fleet/internal/registry"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/klauspost/compress/gzip"
)

// Measurement is the InfluxDB measurement registry samples are written to.
const Measurement = "fleet_registry"

// retentionSeconds is applied to buckets the sink creates.
const retentionSeconds = 60 * 60 * 24 * 90

// InfluxSink writes registry samples to InfluxDB through the blocking write
// API. When the server cannot be reached at connect time, samples go to a
// gzipped line-protocol backup file instead.
type InfluxSink struct {
	cfg    config.InfluxConfig
	log    *slog.Logger
	client influxdb2.Client
	writer influxdb2_api.WriteAPIBlocking

	mu         sync.Mutex
	backupFile io.WriteCloser
	backup     *gzip.Writer
}

// NewInfluxSink connects to the configured server, creating the organization
// and bucket when missing.
func NewInfluxSink(ctx context.Context, cfg config.InfluxConfig, log *slog.Logger) (*InfluxSink, error) {
	s := &InfluxSink{cfg: cfg, log: log}

	s.client = influxdb2.NewClientWithOptions(cfg.URL(), cfg.Token,
		influxdb2.DefaultOptions().SetHTTPRequestTimeout(5))

	running, err := s.client.Ping(ctx)
	if err != nil || !running {
		s.client.Close()
		s.client = nil
		if cfg.BackupPath == "" {
			return nil, fmt.Errorf("influxdb unreachable at %s: %v", cfg.URL(), err)
		}
		if err := s.openBackup(); err != nil {
			return nil, err
		}
		log.Warn("InfluxDB unreachable, writing to backup file", "url", cfg.URL(), "backupPath", cfg.BackupPath)
		return s, nil
	}

	if err := s.setupOrganizationAndBucket(ctx); err != nil {
		s.client.Close()
		return nil, err
	}
	s.writer = s.client.WriteAPIBlocking(cfg.Org, cfg.Bucket)
	log.Info("InfluxDB sink initialized", "url", cfg.URL(), "bucket", cfg.Bucket)
	return s, nil
}

func (s *InfluxSink) openBackup() error {
	f, err := os.OpenFile(s.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	s.backupFile = f
	s.backup = gzip.NewWriter(f)
	return nil
}

func (s *InfluxSink) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := s.client.OrganizationsAPI()

	org, err := orgs.FindOrganizationByName(ctx, s.cfg.Org)
	if err != nil {
		s.log.Info("Organization not found, creating", "org", s.cfg.Org)
		org, err = orgs.CreateOrganizationWithName(ctx, s.cfg.Org)
		if err != nil {
			return fmt.Errorf("error creating organization %q: %w", s.cfg.Org, err)
		}
	}

	buckets := s.client.BucketsAPI()
	if _, err := buckets.FindBucketByName(ctx, s.cfg.Bucket); err != nil {
		s.log.Info("Bucket not found, creating", "bucket", s.cfg.Bucket)
		rule := domain.RetentionRuleTypeExpire
		_, err = buckets.CreateBucketWithName(ctx, org, s.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: retentionSeconds,
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %q: %w", s.cfg.Bucket, err)
		}
	}
	return nil
}

// point builds the line-protocol point for one sample.
func point(st registry.Stats, at time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(Measurement,
		nil,
		map[string]any{
			"live":     st.Live,
			"streamed": st.Streamed,
			"limit":    st.Limit,
			"refused":  st.Refused,
			"ticks":    st.Ticks,
		},
		at,
	)
}

// Write records one sample.
func (s *InfluxSink) Write(ctx context.Context, st registry.Stats, at time.Time) error {
	p := point(st, at)

	if s.writer != nil {
		if err := s.writer.WritePoint(ctx, p); err != nil {
			return fmt.Errorf("error sending data to InfluxDB: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backup == nil {
		return fmt.Errorf("influxDB sink closed")
	}
	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	if _, err := s.backup.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close releases the client or finishes the backup file.
func (s *InfluxSink) Close() error {
	if s.client != nil {
		s.client.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backup == nil {
		return nil
	}
	err := s.backup.Close()
	if cerr := s.backupFile.Close(); err == nil {
		err = cerr
	}
	s.backup = nil
	return err
}
