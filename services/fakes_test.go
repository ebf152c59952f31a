package services_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/salillakra/e-summit26-sub001/models"
	"github.com/salillakra/e-summit26-sub001/repositories"
	"github.com/salillakra/e-summit26-sub001/storage"
)

// In-memory repository fakes backing the service tests. They mimic the
// constraint behavior of the Postgres implementations (unique slugs, unique
// (event_id, team_id) registrations, upsert-on-conflict memberships).

type memberKey struct {
	teamID int
	userID int
}

type fakeMembershipRepo struct {
	rows  map[memberKey]*models.TeamMember
	users map[int]*models.User
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{
		rows:  make(map[memberKey]*models.TeamMember),
		users: make(map[int]*models.User),
	}
}

func (f *fakeMembershipRepo) put(teamID, userID int, role models.MemberRole, status models.MemberStatus) {
	f.rows[memberKey{teamID, userID}] = &models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		Status:   status,
		JoinedAt: time.Now(),
	}
}

func (f *fakeMembershipRepo) Upsert(_ context.Context, member *models.TeamMember) error {
	member.JoinedAt = time.Now()
	copied := *member
	f.rows[memberKey{member.TeamID, member.UserID}] = &copied
	return nil
}

func (f *fakeMembershipRepo) Approve(_ context.Context, teamID, userID int) error {
	row, ok := f.rows[memberKey{teamID, userID}]
	if !ok || row.Status != models.MemberStatusPending {
		return repositories.ErrMembershipNotPending
	}
	row.Status = models.MemberStatusAccepted
	return nil
}

func (f *fakeMembershipRepo) FindActiveByUser(_ context.Context, userID int) (*models.TeamMember, error) {
	for _, row := range f.rows {
		if row.UserID == userID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) CountAccepted(_ context.Context, teamID int) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.TeamID == teamID && row.Status == models.MemberStatusAccepted {
			count++
		}
	}
	return count, nil
}

func (f *fakeMembershipRepo) CountAcceptedByTeams(ctx context.Context, teamIDs []int) (map[int]int, error) {
	counts := make(map[int]int)
	for _, id := range teamIDs {
		count, _ := f.CountAccepted(ctx, id)
		if count > 0 {
			counts[id] = count
		}
	}
	return counts, nil
}

func (f *fakeMembershipRepo) ListByTeam(_ context.Context, teamID int) ([]*models.TeamMember, error) {
	members := make([]*models.TeamMember, 0)
	for _, row := range f.rows {
		if row.TeamID == teamID {
			copied := *row
			if user, ok := f.users[row.UserID]; ok {
				userCopy := *user
				copied.User = &userCopy
			} else {
				copied.User = &models.User{ID: row.UserID}
			}
			members = append(members, &copied)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members, nil
}

func (f *fakeMembershipRepo) IsAcceptedMember(_ context.Context, teamID, userID int) (bool, error) {
	row, ok := f.rows[memberKey{teamID, userID}]
	return ok && row.Status == models.MemberStatusAccepted, nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int

	members *fakeMembershipRepo
	regs    *fakeRegistrationRepo

	// slugConflicts forces the next N CreateWithLeader calls to fail with a
	// slug uniqueness violation.
	slugConflicts int
	createCalls   int
}

func newFakeTeamRepo(members *fakeMembershipRepo, regs *fakeRegistrationRepo) *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[int]*models.Team),
		members: members,
		regs:    regs,
	}
}

func (f *fakeTeamRepo) CreateWithLeader(_ context.Context, team *models.Team) error {
	f.createCalls++
	if f.slugConflicts > 0 {
		f.slugConflicts--
		return repositories.ErrTeamSlugConflict
	}
	for _, existing := range f.teams {
		if existing.Slug == team.Slug {
			return repositories.ErrTeamSlugConflict
		}
	}
	f.nextID++
	team.ID = f.nextID
	team.CreatedAt = time.Now()
	copied := *team
	f.teams[team.ID] = &copied
	f.members.put(team.ID, team.LeaderID, models.MemberRoleLeader, models.MemberStatusAccepted)
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (f *fakeTeamRepo) GetBySlug(_ context.Context, slug string) (*models.Team, error) {
	for _, team := range f.teams {
		if team.Slug == slug {
			copied := *team
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) GetByIDs(_ context.Context, ids []int) (map[int]*models.Team, error) {
	teams := make(map[int]*models.Team)
	for _, id := range ids {
		if team, ok := f.teams[id]; ok {
			copied := *team
			teams[id] = &copied
		}
	}
	return teams, nil
}

func (f *fakeTeamRepo) DeleteCascade(_ context.Context, teamID int) error {
	if _, ok := f.teams[teamID]; !ok {
		return repositories.ErrTeamNotFound
	}
	if f.regs != nil {
		for key := range f.regs.rows {
			if key.teamID == teamID {
				delete(f.regs.rows, key)
			}
		}
	}
	for key := range f.members.rows {
		if key.teamID == teamID {
			delete(f.members.rows, key)
		}
	}
	delete(f.teams, teamID)
	return nil
}

func (f *fakeTeamRepo) Count(_ context.Context) (int, error) {
	return len(f.teams), nil
}

type fakeEventRepo struct {
	events map[int]*models.Event
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int]*models.Event)}
}

func (f *fakeEventRepo) put(event *models.Event) *models.Event {
	if event.ID == 0 {
		f.nextID++
		event.ID = f.nextID
	}
	f.events[event.ID] = event
	return event
}

func (f *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	f.put(event)
	event.CreatedAt = time.Now()
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) List(_ context.Context, statusFilter *models.EventStatus) ([]*models.Event, error) {
	events := make([]*models.Event, 0)
	for _, event := range f.events {
		if statusFilter == nil || event.Status == *statusFilter {
			copied := *event
			events = append(events, &copied)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartDate.Before(events[j].StartDate) })
	return events, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Count(_ context.Context) (int, error) {
	return len(f.events), nil
}

func (f *fakeEventRepo) MarkOngoingByDates(_ context.Context) ([]int, error) {
	return nil, nil
}

func (f *fakeEventRepo) MarkCompletedByDates(_ context.Context) ([]int, error) {
	return nil, nil
}

type regKey struct {
	eventID int
	teamID  int
}

type fakeRegistrationRepo struct {
	rows   map[regKey]*models.EventRegistration
	nextID int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{rows: make(map[regKey]*models.EventRegistration)}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, reg *models.EventRegistration) error {
	key := regKey{reg.EventID, reg.TeamID}
	if _, ok := f.rows[key]; ok {
		return repositories.ErrRegistrationConflict
	}
	f.nextID++
	reg.ID = f.nextID
	reg.RegisteredAt = time.Now()
	copied := *reg
	f.rows[key] = &copied
	return nil
}

func (f *fakeRegistrationRepo) FindByEventAndTeam(_ context.Context, eventID, teamID int) (*models.EventRegistration, error) {
	reg, ok := f.rows[regKey{eventID, teamID}]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (f *fakeRegistrationRepo) ListByEvent(_ context.Context, eventID int) ([]*models.EventRegistration, error) {
	regs := make([]*models.EventRegistration, 0)
	for key, reg := range f.rows {
		if key.eventID == eventID {
			copied := *reg
			regs = append(regs, &copied)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs, nil
}

func (f *fakeRegistrationRepo) Count(_ context.Context) (int, error) {
	return len(f.rows), nil
}

type fakeResultRepo struct {
	rows map[regKey]*models.EventResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{rows: make(map[regKey]*models.EventResult)}
}

func (f *fakeResultRepo) Upsert(_ context.Context, result *models.EventResult) error {
	result.DeclaredAt = time.Now()
	copied := *result
	f.rows[regKey{result.EventID, result.TeamID}] = &copied
	return nil
}

func (f *fakeResultRepo) ListByEvent(_ context.Context, eventID int) ([]*models.EventResult, error) {
	results := make([]*models.EventResult, 0)
	for key, result := range f.rows {
		if key.eventID == eventID {
			copied := *result
			results = append(results, &copied)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Rank < results[j].Rank })
	return results, nil
}

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []int) (map[int]*models.User, error) {
	users := make(map[int]*models.User)
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			copied := *user
			users[id] = &copied
		}
	}
	return users, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(f.users))
	for _, user := range f.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

type fakeMessageRepo struct {
	rows   []*models.Message
	nextID int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *models.Message) error {
	f.nextID++
	msg.ID = f.nextID
	msg.CreatedAt = time.Now()
	copied := *msg
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeMessageRepo) ListRecentByEvent(_ context.Context, eventID, limit int) ([]*models.Message, error) {
	matched := make([]*models.Message, 0)
	for _, msg := range f.rows {
		if msg.EventID == eventID {
			copied := *msg
			matched = append(matched, &copied)
		}
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

type fakeUploader struct {
	uploads map[string]string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: make(map[string]string)}
}

func (f *fakeUploader) Upload(_ context.Context, key string, contentType string, _ io.Reader) (*storage.UploadResult, error) {
	location := f.GetPublicURL(key)
	f.uploads[key] = contentType
	return &storage.UploadResult{Key: key, Location: location, ETag: "fake"}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	delete(f.uploads, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return fmt.Sprintf("https://assets.example.com/%s", key)
}
