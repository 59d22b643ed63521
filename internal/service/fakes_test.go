package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/model"
	"gorm.io/gorm"
)

// fakeKV is an in-memory store.KV with an adjustable clock so expiry can
// be tested without sleeping.
type fakeKV struct {
	mu    sync.Mutex
	items map[string]fakeItem
	now   func() time.Time
}

type fakeItem struct {
	value     string
	expiresAt time.Time
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		items: make(map[string]fakeItem),
		now:   time.Now,
	}
}

func (f *fakeKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = fakeItem{value: value, expiresAt: f.now().Add(ttl)}
	return nil
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[key]
	if !ok || f.now().After(item.expiresAt) {
		return "", false, nil
	}
	return item.value, true, nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	return nil
}

func (f *fakeKV) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[key]
	if !ok || f.now().After(item.expiresAt) {
		f.items[key] = fakeItem{value: "1", expiresAt: f.now().Add(ttl)}
		return 1, nil
	}
	count, err := strconv.ParseInt(item.value, 10, 64)
	if err != nil {
		return 0, err
	}
	count++
	item.value = strconv.FormatInt(count, 10)
	f.items[key] = item
	return count, nil
}

// memoryUserRepo implements repository.UserRepository over a slice and
// counts store accesses so tests can assert validation short-circuits.
type memoryUserRepo struct {
	mu      sync.Mutex
	users   []*model.User
	nextID  uint
	queries int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{nextID: 1}
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	for _, u := range m.users {
		if u.Phone == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) GetPendingByPhone(ctx context.Context, phone string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	for _, u := range m.users {
		if u.Phone == phone && u.Status == "inactive" {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	for _, u := range m.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserRepo) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	m.nextID++
	if user.TokenVersion == 0 {
		user.TokenVersion = 1
	}
	copied := *user
	m.users = append(m.users, &copied)
	return nil
}

func (m *memoryUserRepo) Activate(ctx context.Context, id uint, verifiedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id && u.Status == "inactive" {
			u.Status = "active"
			v := verifiedAt
			u.VerifiedAt = &v
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) UpdateLastLogin(ctx context.Context, id uint) error {
	return nil
}

func (m *memoryUserRepo) UpdateTokenVersion(ctx context.Context, id uint, newVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.TokenVersion = newVersion
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) accessCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries
}

// memorySocialRepo implements repository.SocialAccountRepository.
type memorySocialRepo struct {
	mu       sync.Mutex
	accounts []*model.SocialAccount
	nextID   uint
}

func newMemorySocialRepo() *memorySocialRepo {
	return &memorySocialRepo{nextID: 1}
}

func (m *memorySocialRepo) GetByID(ctx context.Context, id uint) (*model.SocialAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memorySocialRepo) GetByProvider(ctx context.Context, provider, providerUserID string) (*model.SocialAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Provider == provider && a.ProviderUserID == providerUserID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memorySocialRepo) Create(ctx context.Context, account *model.SocialAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = m.nextID
	m.nextID++
	copied := *account
	m.accounts = append(m.accounts, &copied)
	return nil
}

func (m *memorySocialRepo) Link(ctx context.Context, id, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id && a.UserID == nil {
			uid := userID
			a.UserID = &uid
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// memoryPlanRepo implements repository.PlanRepository.
type memoryPlanRepo struct {
	plans []*model.SubscriptionPlan
}

func (m *memoryPlanRepo) List(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error) {
	var out []model.SubscriptionPlan
	for _, p := range m.plans {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memoryPlanRepo) GetByID(ctx context.Context, id uint) (*model.SubscriptionPlan, error) {
	for _, p := range m.plans {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryPlanRepo) Create(ctx context.Context, plan *model.SubscriptionPlan) error {
	plan.ID = uint(len(m.plans) + 1)
	copied := *plan
	m.plans = append(m.plans, &copied)
	return nil
}

func (m *memoryPlanRepo) Save(ctx context.Context, plan *model.SubscriptionPlan) error {
	for i, p := range m.plans {
		if p.ID == plan.ID {
			copied := *plan
			m.plans[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// memorySubRepo implements repository.SubscriptionRepository with the
// one-row-per-user upsert behavior.
type memorySubRepo struct {
	planRepo *memoryPlanRepo
	subs     map[uint]*model.UserSubscription
}

func newMemorySubRepo(planRepo *memoryPlanRepo) *memorySubRepo {
	return &memorySubRepo{
		planRepo: planRepo,
		subs:     make(map[uint]*model.UserSubscription),
	}
}

func (m *memorySubRepo) GetByUserID(ctx context.Context, userID uint) (*model.UserSubscription, error) {
	sub, ok := m.subs[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sub
	if plan, err := m.planRepo.GetByID(ctx, sub.PlanID); err == nil {
		copied.Plan = *plan
	}
	return &copied, nil
}

func (m *memorySubRepo) Upsert(ctx context.Context, sub *model.UserSubscription) error {
	copied := *sub
	m.subs[sub.UserID] = &copied
	return nil
}

// memoryAdRepo implements repository.AdRepository. Only the behaviors the
// services depend on are modeled; the SQL query shape is covered by the
// repository itself.
type memoryAdRepo struct {
	mu     sync.Mutex
	ads    []*model.Ad
	nextID uint

	lastFilter  dto.AdFilter
	lastPage    int
	lastPerPage int
}

func newMemoryAdRepo() *memoryAdRepo {
	return &memoryAdRepo{nextID: 1}
}

func (m *memoryAdRepo) List(ctx context.Context, filter dto.AdFilter) ([]model.Ad, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter

	var out []model.Ad
	for _, ad := range m.ads {
		if ad.Status == "active" && ad.IsApproved {
			out = append(out, *ad)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryAdRepo) GetVisibleByID(ctx context.Context, id uint) (*model.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ad := range m.ads {
		if ad.ID == id && ad.Status == "active" && ad.IsApproved {
			ad.ViewsCount++
			copied := *ad
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryAdRepo) ListByUser(ctx context.Context, userID uint, page, perPage int) ([]model.Ad, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPage = page
	m.lastPerPage = perPage
	var out []model.Ad
	for _, ad := range m.ads {
		if ad.UserID == userID && ad.Status != "delete" {
			out = append(out, *ad)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryAdRepo) CountActiveByUser(ctx context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countActiveLocked(userID), nil
}

func (m *memoryAdRepo) countActiveLocked(userID uint) int64 {
	var count int64
	for _, ad := range m.ads {
		if ad.UserID == userID && ad.Status == "active" {
			count++
		}
	}
	return count
}

func (m *memoryAdRepo) CreateWithQuota(ctx context.Context, ad *model.Ad, adLimit int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countActiveLocked(ad.UserID) >= int64(adLimit) {
		return apperrors.ErrAdLimitReached
	}
	ad.ID = m.nextID
	m.nextID++
	copied := *ad
	m.ads = append(m.ads, &copied)
	return nil
}

// memoryCatalogRepo implements repository.CatalogRepository.
type memoryCatalogRepo struct {
	categories   []*model.Category
	conditions   []model.Condition
	priceTypes   []model.PriceType
	governorates []model.Governorate
	banners      []*model.Banner
}

func (m *memoryCatalogRepo) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	var out []model.Category
	for _, c := range m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memoryCatalogRepo) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryCatalogRepo) GetCategoryByID(ctx context.Context, id uint) (*model.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryCatalogRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	category.ID = uint(len(m.categories) + 1)
	copied := *category
	m.categories = append(m.categories, &copied)
	return nil
}

func (m *memoryCatalogRepo) SaveCategory(ctx context.Context, category *model.Category) error {
	for i, c := range m.categories {
		if c.ID == category.ID {
			copied := *category
			m.categories[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryCatalogRepo) ListConditions(ctx context.Context) ([]model.Condition, error) {
	return m.conditions, nil
}

func (m *memoryCatalogRepo) ListPriceTypes(ctx context.Context) ([]model.PriceType, error) {
	return m.priceTypes, nil
}

func (m *memoryCatalogRepo) ListGovernorates(ctx context.Context) ([]model.Governorate, error) {
	return m.governorates, nil
}

func (m *memoryCatalogRepo) ListActiveBanners(ctx context.Context, placement string, now time.Time) ([]model.Banner, error) {
	var out []model.Banner
	for _, b := range m.banners {
		if b.Placement == placement && b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memoryCatalogRepo) CreateBanner(ctx context.Context, banner *model.Banner) error {
	banner.ID = uint(len(m.banners) + 1)
	copied := *banner
	m.banners = append(m.banners, &copied)
	return nil
}
