package company

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	companyerrors "emplystack/internal/company/errors"
	"emplystack/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const subscriptionCacheTTL = 5 * time.Minute

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error)
	UpdateSubscription(ctx context.Context, id string, req UpdateSubscriptionRequest) (*CompanyResponse, error)
	HasActiveSubscription(ctx context.Context, companyID string) (bool, error)
	ListActiveCompanyIDs(ctx context.Context) ([]string, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	now    func() time.Time
	logger *zap.Logger
}

// NewService accepts a nil redis client, in which case subscription checks
// always hit the database.
func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{repo: repo, rdb: rdb, now: time.Now, logger: l}
}

func subscriptionCacheKey(companyID string) string {
	return fmt.Sprintf("company:%s:subscription_active", companyID)
}

func (s *service) load(ctx context.Context, id string) (*Company, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companyerrors.ErrCompanyNotFound
		}
		return nil, err
	}
	return comp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*CompanyResponse, error) {
	comp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapToResponse(comp), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error) {
	comp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		comp.Name = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		comp.Email = email
	}

	if err := s.repo.Update(ctx, comp); err != nil {
		return nil, err
	}

	return s.mapToResponse(comp), nil
}

func (s *service) UpdateSubscription(ctx context.Context, id string, req UpdateSubscriptionRequest) (*CompanyResponse, error) {
	comp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	comp.SubscriptionStatus = req.Status
	comp.SubscriptionEndsAt = nil
	if req.EndsAt != nil && *req.EndsAt != "" {
		endsAt, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			return nil, companyerrors.ErrInvalidSubscriptionEnd
		}
		comp.SubscriptionEndsAt = &endsAt
	}

	if err := s.repo.Update(ctx, comp); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, subscriptionCacheKey(id)).Err(); err != nil {
			contextutil.GetLogger(ctx, s.logger).Warn("invalidate subscription cache failed", zap.String("company_id", id), zap.Error(err))
		}
	}

	contextutil.GetLogger(ctx, s.logger).Info("subscription updated",
		zap.String("company_id", id),
		zap.String("status", comp.SubscriptionStatus),
	)

	return s.mapToResponse(comp), nil
}

// HasActiveSubscription caches the answer for five minutes. Redis failures
// fall back to the database.
func (s *service) HasActiveSubscription(ctx context.Context, companyID string) (bool, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	key := subscriptionCacheKey(companyID)

	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			return val == "1", nil
		case !errors.Is(err, redis.Nil):
			log.Warn("subscription cache read failed", zap.String("company_id", companyID), zap.Error(err))
		}
	}

	comp, err := s.load(ctx, companyID)
	if err != nil {
		if errors.Is(err, companyerrors.ErrCompanyNotFound) {
			return false, nil
		}
		return false, err
	}

	active := comp.HasActiveSubscription(s.now())

	if s.rdb != nil {
		val := "0"
		if active {
			val = "1"
		}
		if err := s.rdb.Set(ctx, key, val, subscriptionCacheTTL).Err(); err != nil {
			log.Warn("subscription cache write failed", zap.String("company_id", companyID), zap.Error(err))
		}
	}

	return active, nil
}

func (s *service) ListActiveCompanyIDs(ctx context.Context) ([]string, error) {
	companies, err := s.repo.ListWithActiveSubscription(ctx, s.now())
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(companies))
	for i, c := range companies {
		ids[i] = c.ID.String()
	}
	return ids, nil
}

func (s *service) mapToResponse(c *Company) *CompanyResponse {
	resp := &CompanyResponse{
		ID:                 c.ID.String(),
		Name:               c.Name,
		Email:              c.Email,
		IsActive:           c.IsActive,
		SubscriptionStatus: c.SubscriptionStatus,
		SubscriptionActive: c.HasActiveSubscription(s.now()),
	}
	if c.SubscriptionEndsAt != nil {
		v := c.SubscriptionEndsAt.Format(time.RFC3339)
		resp.SubscriptionEndsAt = &v
	}
	return resp
}
