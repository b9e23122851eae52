package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubTeamRepo struct {
	byID     map[string]*domain.Team
	order    []string // insertion order, store-native
	seq      int
	scoreErr error // if set, UpdateScore returns this error
	findErr  error // if set, FindAll returns this error
}

func newStubTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{byID: make(map[string]*domain.Team)}
}

func (r *stubTeamRepo) Insert(_ context.Context, t *domain.Team) error {
	r.seq++
	t.ID = fmt.Sprintf("team-%d", r.seq)
	clone := *t
	r.byID[t.ID] = &clone
	r.order = append(r.order, t.ID)
	return nil
}

func (r *stubTeamRepo) FindAll(_ context.Context) ([]*domain.Team, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	teams := make([]*domain.Team, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.byID[id]
		teams = append(teams, &clone)
	}
	return teams, nil
}

func (r *stubTeamRepo) FindByID(_ context.Context, id string) (*domain.Team, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	clone := *t
	return &clone, nil
}

// Update mirrors the Mongo modified count: a field only counts when its
// stored value actually changes.
func (r *stubTeamRepo) Update(_ context.Context, id string, patch ports.TeamPatch) (int64, error) {
	t, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	changed := false
	if patch.Name != nil && *patch.Name != t.Name {
		t.Name = *patch.Name
		changed = true
	}
	if patch.Score != nil && *patch.Score != t.Score {
		t.Score = *patch.Score
		changed = true
	}
	if !changed {
		return 0, nil
	}
	return 1, nil
}

func (r *stubTeamRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (r *stubTeamRepo) UpdateScore(_ context.Context, id string, score int) error {
	if r.scoreErr != nil {
		return r.scoreErr
	}
	if t, ok := r.byID[id]; ok {
		t.Score = score
	}
	return nil
}

func (r *stubTeamRepo) FindLeaderboard(ctx context.Context) ([]*domain.Team, error) {
	teams, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Score > teams[j].Score })
	return teams, nil
}

type stubUserRepo struct {
	byID  map[string]*domain.User
	order []string
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Insert(_ context.Context, u *domain.User) error {
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	clone := *u
	r.byID[u.ID] = &clone
	r.order = append(r.order, u.ID)
	return nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.byID[id]
		users = append(users, &clone)
	}
	return users, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByTeam(_ context.Context, teamID string) ([]*domain.User, error) {
	users := make([]*domain.User, 0)
	for _, id := range r.order {
		if r.byID[id].TeamID == teamID {
			clone := *r.byID[id]
			users = append(users, &clone)
		}
	}
	return users, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch ports.UserPatch) (int64, error) {
	u, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	changed := false
	if patch.Name != nil && *patch.Name != u.Name {
		u.Name = *patch.Name
		changed = true
	}
	if patch.Score != nil && *patch.Score != u.Score {
		u.Score = *patch.Score
		changed = true
	}
	if patch.TeamID != nil && *patch.TeamID != u.TeamID {
		u.TeamID = *patch.TeamID
		changed = true
	}
	if !changed {
		return 0, nil
	}
	return 1, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (r *stubUserRepo) FindLeaderboardByTeam(ctx context.Context, teamID string) ([]*domain.User, error) {
	users, err := r.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Score > users[j].Score })
	return users, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func newTeamFixture(t *testing.T) (*TeamService, *stubTeamRepo, *stubUserRepo) {
	t.Helper()
	teams := newStubTeamRepo()
	users := newStubUserRepo()
	return NewTeamService(teams, users, discardLogger), teams, users
}

func mustCreateTeam(t *testing.T, svc *TeamService, name string) *domain.Team {
	t.Helper()
	team, err := svc.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	return team
}

func addUser(t *testing.T, users *stubUserRepo, teamID string, score int) *domain.User {
	t.Helper()
	u := &domain.User{Name: "member", TeamID: teamID, Score: score}
	if err := users.Insert(context.Background(), u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return u
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestTeamService_Create_InitialScoreZero(t *testing.T) {
	svc, teams, _ := newTeamFixture(t)

	team := mustCreateTeam(t, svc, "Red")

	if team.ID == "" {
		t.Fatal("expected generated id")
	}
	if team.Score != 0 {
		t.Fatalf("expected initial score 0, got %d", team.Score)
	}
	if team.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}
	if _, ok := teams.byID[team.ID]; !ok {
		t.Fatal("team not persisted")
	}
}

func TestTeamService_RecomputeScore_SumsMembers(t *testing.T) {
	svc, teams, users := newTeamFixture(t)
	team := mustCreateTeam(t, svc, "Red")
	addUser(t, users, team.ID, 100)
	addUser(t, users, team.ID, 150)
	addUser(t, users, "other-team", 999)

	sum, err := svc.RecomputeScore(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if sum != 250 {
		t.Fatalf("expected sum 250, got %d", sum)
	}
	if got := teams.byID[team.ID].Score; got != 250 {
		t.Fatalf("expected stored score 250, got %d", got)
	}
}

func TestTeamService_RecomputeScore_Idempotent(t *testing.T) {
	svc, teams, users := newTeamFixture(t)
	team := mustCreateTeam(t, svc, "Red")
	addUser(t, users, team.ID, 42)

	first, err := svc.RecomputeScore(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	second, err := svc.RecomputeScore(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical sums, got %d then %d", first, second)
	}
	if got := teams.byID[team.ID].Score; got != 42 {
		t.Fatalf("expected stored score 42, got %d", got)
	}
}

func TestTeamService_RecomputeScore_MissingTeamIsNoOp(t *testing.T) {
	svc, teams, _ := newTeamFixture(t)

	sum, err := svc.RecomputeScore(context.Background(), "no-such-team")
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if sum != 0 {
		t.Fatalf("expected sum 0 for missing team, got %d", sum)
	}
	if len(teams.byID) != 0 {
		t.Fatal("no team should have been written")
	}
}

func TestTeamService_Update_AppliesRecognizedFields(t *testing.T) {
	svc, _, _ := newTeamFixture(t)
	team := mustCreateTeam(t, svc, "Red")

	updated, err := svc.Update(context.Background(), team.ID, ports.TeamPatch{
		Name:  strPtr("Crimson"),
		Score: intPtr(7),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Crimson" || updated.Score != 7 {
		t.Fatalf("unexpected team after update: %+v", updated)
	}
}

func TestTeamService_Update_NoChangeIsNotFound(t *testing.T) {
	svc, _, _ := newTeamFixture(t)
	team := mustCreateTeam(t, svc, "Red")

	// Value-identical patch: the store reports zero modifications.
	_, err := svc.Update(context.Background(), team.ID, ports.TeamPatch{Name: strPtr("Red")})
	if !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}

	_, err = svc.Update(context.Background(), "absent", ports.TeamPatch{Name: strPtr("x")})
	if !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound for absent id, got %v", err)
	}
}

func TestTeamService_Delete_DoesNotCascadeToUsers(t *testing.T) {
	svc, _, users := newTeamFixture(t)
	team := mustCreateTeam(t, svc, "Red")
	member := addUser(t, users, team.ID, 10)

	if err := svc.Delete(context.Background(), team.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The member survives with its dangling team reference.
	orphan, err := users.FindByID(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("orphaned user should still exist: %v", err)
	}
	if orphan.TeamID != team.ID {
		t.Fatalf("orphan team_id changed: %s", orphan.TeamID)
	}

	if err := svc.Delete(context.Background(), team.ID); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound on second delete, got %v", err)
	}
}

func TestTeamService_GetLeaderboard_SortedDescending(t *testing.T) {
	svc, teams, _ := newTeamFixture(t)
	a := mustCreateTeam(t, svc, "A")
	b := mustCreateTeam(t, svc, "B")
	c := mustCreateTeam(t, svc, "C")
	teams.byID[a.ID].Score = 10
	teams.byID[b.ID].Score = 30
	teams.byID[c.ID].Score = 20

	board, err := svc.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}

	scores := []int{board[0].Score, board[1].Score, board[2].Score}
	if scores[0] != 30 || scores[1] != 20 || scores[2] != 10 {
		t.Fatalf("expected descending scores, got %v", scores)
	}
}

func TestTeamService_RecalculateAll_Idempotent(t *testing.T) {
	svc, teams, users := newTeamFixture(t)
	a := mustCreateTeam(t, svc, "A")
	b := mustCreateTeam(t, svc, "B")
	addUser(t, users, a.ID, 100)
	addUser(t, users, a.ID, 150)
	addUser(t, users, b.ID, 30)

	// Seed stale aggregates.
	teams.byID[a.ID].Score = -1
	teams.byID[b.ID].Score = 9999

	updated, err := svc.RecalculateAll(context.Background())
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 teams updated, got %d", updated)
	}
	if teams.byID[a.ID].Score != 250 || teams.byID[b.ID].Score != 30 {
		t.Fatalf("unexpected scores: a=%d b=%d", teams.byID[a.ID].Score, teams.byID[b.ID].Score)
	}

	// A second pass changes nothing.
	if _, err := svc.RecalculateAll(context.Background()); err != nil {
		t.Fatalf("second recalculate: %v", err)
	}
	if teams.byID[a.ID].Score != 250 || teams.byID[b.ID].Score != 30 {
		t.Fatalf("second pass changed scores: a=%d b=%d", teams.byID[a.ID].Score, teams.byID[b.ID].Score)
	}
}

func TestTeamService_RecalculateAll_SkipsFailedTeams(t *testing.T) {
	svc, teams, _ := newTeamFixture(t)
	mustCreateTeam(t, svc, "A")
	teams.scoreErr = errors.New("write refused")

	updated, err := svc.RecalculateAll(context.Background())
	if err != nil {
		t.Fatalf("recalculate should not fail outright: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected 0 teams updated, got %d", updated)
	}
}
