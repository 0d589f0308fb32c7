//go:build integration

package runlock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fundregistry/internal/registry/runlock"
	dErrors "fundregistry/pkg/domain-errors"
	"fundregistry/pkg/testutil/containers"
)

type RunLockSuite struct {
	suite.Suite
	ctx       context.Context
	container *containers.RedisContainer
}

func TestRunLockSuite(t *testing.T) {
	suite.Run(t, new(RunLockSuite))
}

func (s *RunLockSuite) SetupSuite() {
	s.ctx = context.Background()
	s.container = containers.NewRedisContainer(s.T())
}

func (s *RunLockSuite) SetupTest() {
	s.Require().NoError(s.container.FlushAll(s.ctx))
}

func (s *RunLockSuite) TearDownSuite() {
	_ = s.container.Client.Close()
	_ = s.container.Container.Terminate(s.ctx)
}

func (s *RunLockSuite) TestSecondAcquireConflicts() {
	first := runlock.New(s.container.Client, time.Minute)
	second := runlock.New(s.container.Client, time.Minute)

	s.Require().NoError(first.Acquire(s.ctx))

	err := second.Acquire(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	s.Require().NoError(first.Release(s.ctx))
	s.NoError(second.Acquire(s.ctx))
}

func (s *RunLockSuite) TestReleaseOnlyOwnLock() {
	first := runlock.New(s.container.Client, time.Minute)
	second := runlock.New(s.container.Client, 50*time.Millisecond)

	s.Require().NoError(second.Acquire(s.ctx))
	time.Sleep(100 * time.Millisecond)

	// second's lock expired and first took over; second's release must not
	// evict first.
	s.Require().NoError(first.Acquire(s.ctx))
	s.Require().NoError(second.Release(s.ctx))

	third := runlock.New(s.container.Client, time.Minute)
	err := third.Acquire(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}
