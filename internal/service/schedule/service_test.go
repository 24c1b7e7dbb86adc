package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/teesheet-service/internal/domain"
	scheduleRepo "github.com/fairwaylabs/teesheet-service/internal/infra/storage/schedule"
	"github.com/fairwaylabs/teesheet-service/internal/service/schedule"
	"github.com/fairwaylabs/teesheet-service/pkg/ptr"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// fakeScheduleRepo stubs the storage surface; published records which
// pointer swaps went through.
type fakeScheduleRepo struct {
	templateVersions map[int64]*domain.TemplateVersion
	seasonVersions   map[int64]*domain.SeasonVersion
	overrideVersions map[int64]*domain.OverrideVersion
	closures         map[int64]*domain.ClosureBlock
	published        []string
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		templateVersions: map[int64]*domain.TemplateVersion{},
		seasonVersions:   map[int64]*domain.SeasonVersion{},
		overrideVersions: map[int64]*domain.OverrideVersion{},
		closures:         map[int64]*domain.ClosureBlock{},
	}
}

func (f *fakeScheduleRepo) CreateTemplate(_ context.Context, t *domain.Template) (*domain.Template, error) {
	return t, nil
}

func (f *fakeScheduleRepo) GetTemplate(_ context.Context, _ int64) (*domain.Template, error) {
	return nil, scheduleRepo.ErrTemplateNotFound
}

func (f *fakeScheduleRepo) CreateTemplateVersion(_ context.Context, v *domain.TemplateVersion) (*domain.TemplateVersion, error) {
	return v, nil
}

func (f *fakeScheduleRepo) GetTemplateVersion(_ context.Context, id int64) (*domain.TemplateVersion, error) {
	v, ok := f.templateVersions[id]
	if !ok {
		return nil, scheduleRepo.ErrTemplateVersionNotFound
	}
	return v, nil
}

func (f *fakeScheduleRepo) PublishTemplateVersion(_ context.Context, templateID, versionID int64) error {
	f.templateVersions[versionID].Published = true
	f.published = append(f.published, "template")
	return nil
}

func (f *fakeScheduleRepo) DeleteTemplateVersion(_ context.Context, id int64) error {
	v, ok := f.templateVersions[id]
	if !ok {
		return scheduleRepo.ErrTemplateVersionNotFound
	}
	if v.Published {
		return scheduleRepo.ErrVersionPublished
	}
	delete(f.templateVersions, id)
	return nil
}

func (f *fakeScheduleRepo) CreateSeason(_ context.Context, s *domain.Season) (*domain.Season, error) {
	return s, nil
}

func (f *fakeScheduleRepo) CreateSeasonVersion(_ context.Context, v *domain.SeasonVersion) (*domain.SeasonVersion, error) {
	return v, nil
}

func (f *fakeScheduleRepo) GetSeasonVersion(_ context.Context, id int64) (*domain.SeasonVersion, error) {
	v, ok := f.seasonVersions[id]
	if !ok {
		return nil, scheduleRepo.ErrSeasonVersionNotFound
	}
	return v, nil
}

func (f *fakeScheduleRepo) PublishSeasonVersion(_ context.Context, seasonID, versionID int64) error {
	f.seasonVersions[versionID].Published = true
	f.published = append(f.published, "season")
	return nil
}

func (f *fakeScheduleRepo) CreateOverride(_ context.Context, o *domain.Override) (*domain.Override, error) {
	return o, nil
}

func (f *fakeScheduleRepo) CreateOverrideVersion(_ context.Context, v *domain.OverrideVersion) (*domain.OverrideVersion, error) {
	return v, nil
}

func (f *fakeScheduleRepo) GetOverrideVersion(_ context.Context, id int64) (*domain.OverrideVersion, error) {
	v, ok := f.overrideVersions[id]
	if !ok {
		return nil, scheduleRepo.ErrOverrideVersionNotFound
	}
	return v, nil
}

func (f *fakeScheduleRepo) PublishOverrideVersion(_ context.Context, overrideID, versionID int64) error {
	f.overrideVersions[versionID].Published = true
	f.published = append(f.published, "override")
	return nil
}

func (f *fakeScheduleRepo) CreateClosure(_ context.Context, c *domain.ClosureBlock) (*domain.ClosureBlock, error) {
	stored := *c
	stored.ID = int64(len(f.closures) + 1)
	f.closures[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeScheduleRepo) DeleteClosure(_ context.Context, id int64) error {
	if _, ok := f.closures[id]; !ok {
		return scheduleRepo.ErrClosureNotFound
	}
	delete(f.closures, id)
	return nil
}

func (f *fakeScheduleRepo) ListClosuresOverlapping(_ context.Context, _ int64, _, _ time.Time) ([]*domain.ClosureBlock, error) {
	return nil, nil
}

type fakeSheetRepo struct{}

func (fakeSheetRepo) ListSides(_ context.Context, _ int64) ([]*domain.Side, error) {
	return nil, nil
}

func newService(repo *fakeScheduleRepo) *schedule.Service {
	return schedule.NewService(repo, fakeSheetRepo{}, noopLogger{})
}

// validTemplateVersion covers side 2 with full-class access and pricing.
func validTemplateVersion(id, templateID int64) *domain.TemplateVersion {
	return &domain.TemplateVersion{
		ID:         id,
		TemplateID: templateID,
		Sides:      []domain.TemplateVersionSide{{SideID: 2, StartSlotsEnabled: true}},
		AccessRules: []domain.AccessRule{
			{SideID: 2, ClassCode: domain.ClassFull, Allowed: true, MaxDaysInAdvance: 7},
		},
		Pricing: []domain.PricingRule{
			{SideID: 2, ClassCode: domain.ClassFull, GreensFeeCents: 5000},
		},
	}
}

func TestPublishTemplateVersion_Valid(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.templateVersions[5] = validTemplateVersion(5, 1)

	err := newService(repo).PublishTemplateVersion(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, repo.templateVersions[5].Published)
}

func TestPublishTemplateVersion_WrongParent(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.templateVersions[5] = validTemplateVersion(5, 1)

	err := newService(repo).PublishTemplateVersion(context.Background(), 2, 5)
	assert.ErrorIs(t, err, schedule.ErrVersionNotFound)
}

func TestPublishTemplateVersion_Rejections(t *testing.T) {
	cases := map[string]func(*domain.TemplateVersion){
		"no side mappings": func(v *domain.TemplateVersion) {
			v.Sides = nil
		},
		"duplicate side mapping": func(v *domain.TemplateVersion) {
			v.Sides = append(v.Sides, domain.TemplateVersionSide{SideID: 2})
		},
		"missing access rule": func(v *domain.TemplateVersion) {
			v.AccessRules = nil
		},
		"missing pricing": func(v *domain.TemplateVersion) {
			v.Pricing = nil
		},
		"reround onto unmapped side": func(v *domain.TemplateVersion) {
			v.Sides[0].ReroundTargetSideID = ptr.Ptr(int64(9))
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newFakeScheduleRepo()
			version := validTemplateVersion(5, 1)
			mutate(version)
			repo.templateVersions[5] = version

			err := newService(repo).PublishTemplateVersion(context.Background(), 1, 5)
			assert.ErrorIs(t, err, schedule.ErrConfigurationInvalid)
			assert.False(t, version.Published)
		})
	}
}

func TestPublishTemplateVersion_ReroundCycleRejected(t *testing.T) {
	repo := newFakeScheduleRepo()
	version := validTemplateVersion(5, 1)
	version.Sides = []domain.TemplateVersionSide{
		{SideID: 2, ReroundTargetSideID: ptr.Ptr(int64(3))},
		{SideID: 3, ReroundTargetSideID: ptr.Ptr(int64(2))},
	}
	version.AccessRules = append(version.AccessRules,
		domain.AccessRule{SideID: 3, ClassCode: domain.ClassFull, Allowed: true, MaxDaysInAdvance: 7})
	version.Pricing = append(version.Pricing,
		domain.PricingRule{SideID: 3, ClassCode: domain.ClassFull, GreensFeeCents: 5000})
	repo.templateVersions[5] = version

	err := newService(repo).PublishTemplateVersion(context.Background(), 1, 5)
	assert.ErrorIs(t, err, schedule.ErrConfigurationInvalid)
}

func TestPublishTemplateVersion_SelfReroundAllowed(t *testing.T) {
	repo := newFakeScheduleRepo()
	version := validTemplateVersion(5, 1)
	version.Sides[0].ReroundTargetSideID = ptr.Ptr(int64(2))
	repo.templateVersions[5] = version

	err := newService(repo).PublishTemplateVersion(context.Background(), 1, 5)
	assert.NoError(t, err)
}

func seasonVersion(id int64) *domain.SeasonVersion {
	return &domain.SeasonVersion{
		ID:               id,
		SeasonID:         1,
		StartDate:        time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDateExclusive: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Windows: []domain.WeekdayWindow{
			{Weekday: 1, Position: 0, TemplateVersionID: 5, StartMode: domain.WindowFixed},
			{Weekday: 1, Position: 1, TemplateVersionID: 5, StartMode: domain.WindowFixed},
		},
	}
}

func TestPublishSeasonVersion_Valid(t *testing.T) {
	repo := newFakeScheduleRepo()
	published := validTemplateVersion(5, 1)
	published.Published = true
	repo.templateVersions[5] = published
	repo.seasonVersions[20] = seasonVersion(20)

	err := newService(repo).PublishSeasonVersion(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.True(t, repo.seasonVersions[20].Published)
}

func TestPublishSeasonVersion_EmptyDateRange(t *testing.T) {
	repo := newFakeScheduleRepo()
	version := seasonVersion(20)
	version.EndDateExclusive = version.StartDate
	repo.seasonVersions[20] = version

	err := newService(repo).PublishSeasonVersion(context.Background(), 1, 20)
	assert.ErrorIs(t, err, schedule.ErrConfigurationInvalid)
}

func TestPublishSeasonVersion_UnpublishedTemplateRejected(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.templateVersions[5] = validTemplateVersion(5, 1)
	repo.seasonVersions[20] = seasonVersion(20)

	err := newService(repo).PublishSeasonVersion(context.Background(), 1, 20)
	assert.ErrorIs(t, err, schedule.ErrConfigurationInvalid)
}

func TestPublishSeasonVersion_PositionGapRejected(t *testing.T) {
	repo := newFakeScheduleRepo()
	published := validTemplateVersion(5, 1)
	published.Published = true
	repo.templateVersions[5] = published

	version := seasonVersion(20)
	version.Windows[1].Position = 2
	repo.seasonVersions[20] = version

	err := newService(repo).PublishSeasonVersion(context.Background(), 1, 20)
	assert.ErrorIs(t, err, schedule.ErrConfigurationInvalid)
}

func TestPublishOverrideVersion_ClosedDayPasses(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.overrideVersions[30] = &domain.OverrideVersion{
		ID:         30,
		OverrideID: 1,
		Date:       time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
	}

	err := newService(repo).PublishOverrideVersion(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.True(t, repo.overrideVersions[30].Published)
}

func TestPublishOverrideVersion_PositionGapRejected(t *testing.T) {
	repo := newFakeScheduleRepo()
	published := validTemplateVersion(5, 1)
	published.Published = true
	repo.templateVersions[5] = published

	repo.overrideVersions[30] = &domain.OverrideVersion{
		ID:         30,
		OverrideID: 1,
		Windows: []domain.OverrideWindow{
			{Position: 1, TemplateVersionID: 5, StartMode: domain.WindowFixed},
		},
	}

	err := newService(repo).PublishOverrideVersion(context.Background(), 1, 30)
	assert.ErrorIs(t, err, schedule.ErrConfigurationInvalid)
}

func TestCreateClosure_EmptyRangeRejected(t *testing.T) {
	repo := newFakeScheduleRepo()
	now := time.Now()

	_, err := newService(repo).CreateClosure(context.Background(), &domain.ClosureBlock{
		SheetID:  1,
		StartsAt: now,
		EndsAt:   now,
	})
	assert.ErrorIs(t, err, schedule.ErrConfigurationInvalid)
}

func TestDeleteClosure_NotFound(t *testing.T) {
	repo := newFakeScheduleRepo()

	err := newService(repo).DeleteClosure(context.Background(), 99)
	assert.ErrorIs(t, err, schedule.ErrVersionNotFound)
}

func TestDeleteTemplateVersion_PublishedRefused(t *testing.T) {
	repo := newFakeScheduleRepo()
	version := validTemplateVersion(5, 1)
	version.Published = true
	repo.templateVersions[5] = version

	err := newService(repo).DeleteTemplateVersion(context.Background(), 5)
	assert.ErrorIs(t, err, schedule.ErrVersionPublished)
}
