package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/domain/entity"
	"github.com/garyjia/leave-desk/internal/infrastructure/persistence/jsonstore"
	"github.com/garyjia/leave-desk/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryStore is an in-memory employee and leave document pair
type memoryStore struct {
	mu        sync.Mutex
	employees []entity.Employee
	leaves    []entity.LeaveApplication
	source    port.SnapshotSource
	saves     int

	saveLeavesFunc func(leaves []entity.LeaveApplication) error
}

func (m *memoryStore) LoadEmployees(ctx context.Context) port.Snapshot[entity.Employee] {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := append([]entity.Employee{}, m.employees...)
	return port.Snapshot[entity.Employee]{Items: items, Source: port.SourceFile}
}

func (m *memoryStore) SaveEmployees(ctx context.Context, employees []entity.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = append([]entity.Employee{}, employees...)
	return nil
}

func (m *memoryStore) LoadLeaves(ctx context.Context) port.Snapshot[entity.LeaveApplication] {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := port.Snapshot[entity.LeaveApplication]{
		Items:  append([]entity.LeaveApplication{}, m.leaves...),
		Source: m.source,
	}
	if m.source == port.SourceCorrupt {
		snapshot.Items = []entity.LeaveApplication{}
		snapshot.Err = errors.New("unexpected end of JSON input")
	}
	return snapshot
}

func (m *memoryStore) SaveLeaves(ctx context.Context, leaves []entity.LeaveApplication) error {
	if m.saveLeavesFunc != nil {
		if err := m.saveLeavesFunc(leaves); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.leaves = append([]entity.LeaveApplication{}, leaves...)
	m.source = port.SourceFile
	return nil
}

func (m *memoryStore) snapshot() []entity.LeaveApplication {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.LeaveApplication{}, m.leaves...)
}

type mockReviewRepo struct {
	createFunc func(ctx context.Context, record *entity.ReviewRecord) error
	records    []*entity.ReviewRecord
}

func (m *mockReviewRepo) Create(ctx context.Context, record *entity.ReviewRecord) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, record)
	}
	record.ID = int64(len(m.records) + 1)
	m.records = append(m.records, record)
	return nil
}

func (m *mockReviewRepo) GetByLeaveID(ctx context.Context, leaveID int64) ([]*entity.ReviewRecord, error) {
	result := []*entity.ReviewRecord{}
	for _, r := range m.records {
		if r.LeaveID == leaveID {
			result = append(result, r)
		}
	}
	return result, nil
}

type mockNotifier struct {
	submitted []int64
	reviewed  []entity.LeaveStatus
	err       error
}

func (m *mockNotifier) LeaveSubmitted(ctx context.Context, leave entity.LeaveApplication, employeeName string) error {
	m.submitted = append(m.submitted, leave.ID)
	return m.err
}

func (m *mockNotifier) LeaveReviewed(ctx context.Context, leave entity.LeaveApplication, previous entity.LeaveStatus) error {
	m.reviewed = append(m.reviewed, leave.Status)
	return m.err
}

func seededStore() *memoryStore {
	return &memoryStore{
		employees: []entity.Employee{
			{ID: 0, Name: "admin", Password: "a", LeaveBalance: 0},
			{ID: 7, Name: "alice", Password: "pw", LeaveBalance: 10},
			{ID: 8, Name: "bob", Password: "secret", LeaveBalance: 3},
		},
		leaves: []entity.LeaveApplication{},
	}
}

func newTestService(store *memoryStore, reviews port.ReviewRepository, notifier port.Notifier, strict bool) *leaveServiceImpl {
	svc := NewLeaveService(store, store, reviews, notifier, LeaveServiceConfig{StrictWrites: strict}, zap.NewNop())
	return svc.(*leaveServiceImpl)
}

var (
	adminSession = Session{EmployeeID: 0, Name: "admin", Role: RoleAdmin}
	aliceSession = Session{EmployeeID: 7, Name: "alice", Role: RoleEmployee}
)

func TestAuthenticate(t *testing.T) {
	svc := newTestService(seededStore(), nil, nil, false)
	ctx := context.Background()

	tests := []struct {
		name     string
		user     string
		password string
		wantID   int
		wantRole Role
		wantErr  error
	}{
		{name: "administrator", user: "admin", password: "a", wantID: 0, wantRole: RoleAdmin},
		{name: "employee", user: "alice", password: "pw", wantID: 7, wantRole: RoleEmployee},
		{name: "wrong password", user: "admin", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "unknown user", user: "carol", password: "pw", wantErr: ErrInvalidCredentials},
		{name: "case sensitive", user: "Alice", password: "pw", wantErr: ErrInvalidCredentials},
		{name: "empty", user: "", password: "", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Authenticate(ctx, tt.user, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, session.EmployeeID)
			assert.Equal(t, tt.wantRole, session.Role)
			assert.Equal(t, tt.user, session.Name)
		})
	}
}

func TestAuthenticate_FirstMatchWins(t *testing.T) {
	store := seededStore()
	store.employees = append(store.employees, entity.Employee{ID: 9, Name: "alice", Password: "pw"})
	svc := newTestService(store, nil, nil, false)

	session, err := svc.Authenticate(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, 7, session.EmployeeID)
}

func TestAuthenticate_RereadsEmployeeFile(t *testing.T) {
	store := seededStore()
	svc := newTestService(store, nil, nil, false)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "dave", "x")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, store.SaveEmployees(ctx, append(store.employees, entity.Employee{ID: 12, Name: "dave", Password: "x"})))

	session, err := svc.Authenticate(ctx, "dave", "x")
	require.NoError(t, err)
	assert.Equal(t, 12, session.EmployeeID)
}

func TestSubmitLeave(t *testing.T) {
	store := seededStore()
	notifier := &mockNotifier{}
	svc := newTestService(store, nil, notifier, false)

	leave, err := svc.SubmitLeave(context.Background(), aliceSession, SubmitLeaveInput{
		StartDate: "2024-05-01",
		EndDate:   "2024-05-03",
		Reason:    "trip",
	})
	require.NoError(t, err)

	stored := store.snapshot()
	require.Len(t, stored, 1)
	assert.Equal(t, *leave, stored[0])
	assert.Equal(t, int64(1), stored[0].ID)
	assert.Equal(t, 7, stored[0].EmployeeID)
	assert.Equal(t, entity.NewDate(2024, time.May, 1), stored[0].StartDate)
	assert.Equal(t, entity.NewDate(2024, time.May, 3), stored[0].EndDate)
	assert.Equal(t, "trip", stored[0].Reason)
	assert.Equal(t, entity.LeaveStatusPending, stored[0].Status)
	assert.Equal(t, []int64{1}, notifier.submitted)
}

func TestSubmitLeave_AppendsAfterExisting(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{
		{ID: 4, EmployeeID: 8, Status: entity.LeaveStatusApproved},
		{ID: 0, EmployeeID: 8, Status: entity.LeaveStatusPending},
	}
	svc := newTestService(store, nil, nil, false)

	leave, err := svc.SubmitLeave(context.Background(), aliceSession, SubmitLeaveInput{
		StartDate: "2024-06-01",
		EndDate:   "2024-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), leave.ID)

	stored := store.snapshot()
	require.Len(t, stored, 3)
	assert.Equal(t, int64(4), stored[0].ID)
	assert.Equal(t, int64(0), stored[1].ID)
	assert.Equal(t, leave.ID, stored[2].ID)
	assert.Empty(t, stored[2].Reason)
}

func TestSubmitLeave_InvalidDate(t *testing.T) {
	tests := []struct {
		name  string
		input SubmitLeaveInput
	}{
		{name: "start not a date", input: SubmitLeaveInput{StartDate: "not-a-date", EndDate: "2024-05-03"}},
		{name: "end not a date", input: SubmitLeaveInput{StartDate: "2024-05-01", EndDate: "05/03/2024"}},
		{name: "impossible day", input: SubmitLeaveInput{StartDate: "2024-02-30", EndDate: "2024-03-01"}},
		{name: "empty", input: SubmitLeaveInput{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			svc := newTestService(store, nil, nil, false)

			leave, err := svc.SubmitLeave(context.Background(), aliceSession, tt.input)
			assert.ErrorIs(t, err, ErrInvalidDate)
			assert.Nil(t, leave)
			assert.Empty(t, store.snapshot())
			assert.Zero(t, store.saves)
		})
	}
}

func TestSubmitLeave_RequiresSession(t *testing.T) {
	store := seededStore()
	svc := newTestService(store, nil, nil, false)

	_, err := svc.SubmitLeave(context.Background(), Session{}, SubmitLeaveInput{StartDate: "2024-05-01", EndDate: "2024-05-02"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, store.saves)
}

func TestReviewLeave(t *testing.T) {
	tests := []struct {
		name     string
		from     entity.LeaveStatus
		decision Decision
		want     entity.LeaveStatus
	}{
		{name: "approve pending", from: entity.LeaveStatusPending, decision: DecisionApprove, want: entity.LeaveStatusApproved},
		{name: "reject pending", from: entity.LeaveStatusPending, decision: DecisionReject, want: entity.LeaveStatusRejected},
		{name: "re-approve", from: entity.LeaveStatusApproved, decision: DecisionApprove, want: entity.LeaveStatusApproved},
		{name: "approve rejected", from: entity.LeaveStatusRejected, decision: DecisionApprove, want: entity.LeaveStatusApproved},
		{name: "reject approved", from: entity.LeaveStatusApproved, decision: DecisionReject, want: entity.LeaveStatusRejected},
		{name: "unknown status", from: entity.LeaveStatus("On hold"), decision: DecisionReject, want: entity.LeaveStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			store.leaves = []entity.LeaveApplication{
				{ID: 1, EmployeeID: 8, StartDate: entity.NewDate(2024, time.April, 1), EndDate: entity.NewDate(2024, time.April, 2), Reason: "dentist", Status: entity.LeaveStatusPending},
				{ID: 2, EmployeeID: 7, StartDate: entity.NewDate(2024, time.May, 1), EndDate: entity.NewDate(2024, time.May, 3), Reason: "trip", Status: tt.from},
			}
			before := store.snapshot()
			svc := newTestService(store, nil, nil, false)

			reviewed, err := svc.ReviewLeave(context.Background(), adminSession, 2, tt.decision)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reviewed.Status)

			after := store.snapshot()
			require.Len(t, after, len(before))
			assert.Equal(t, before[0], after[0])

			expected := before[1]
			expected.Status = tt.want
			assert.Equal(t, expected, after[1])
		})
	}
}

func TestReviewLeave_Idempotent(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{{ID: 1, EmployeeID: 7, Status: entity.LeaveStatusPending}}
	svc := newTestService(store, nil, nil, false)
	ctx := context.Background()

	_, err := svc.ReviewLeave(ctx, adminSession, 1, DecisionApprove)
	require.NoError(t, err)
	once := store.snapshot()

	_, err = svc.ReviewLeave(ctx, adminSession, 1, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, once, store.snapshot())
}

func TestReviewLeave_BalanceUntouched(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{{ID: 1, EmployeeID: 7, Status: entity.LeaveStatusPending}}
	svc := newTestService(store, nil, nil, false)
	ctx := context.Background()

	_, err := svc.ReviewLeave(ctx, adminSession, 1, DecisionApprove)
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(ctx, aliceSession)
	require.NoError(t, err)
	assert.Equal(t, 10, dashboard.LeaveBalance)
}

func TestReviewLeave_Errors(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{{ID: 1, EmployeeID: 7, Status: entity.LeaveStatusPending}}
	svc := newTestService(store, nil, nil, false)
	ctx := context.Background()

	_, err := svc.ReviewLeave(ctx, aliceSession, 1, DecisionApprove)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ReviewLeave(ctx, adminSession, 42, DecisionApprove)
	assert.ErrorIs(t, err, ErrLeaveNotFound)

	_, err = svc.ReviewLeave(ctx, adminSession, 1, Decision("defer"))
	assert.ErrorIs(t, err, ErrInvalidDecision)

	assert.Zero(t, store.saves)
	assert.Equal(t, entity.LeaveStatusPending, store.snapshot()[0].Status)
}

func TestReviewLeaveAt(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{
		{ID: 0, EmployeeID: 7, Reason: "legacy a", Status: entity.LeaveStatusPending},
		{ID: 0, EmployeeID: 8, Reason: "legacy b", Status: entity.LeaveStatusPending},
	}
	svc := newTestService(store, nil, nil, false)
	ctx := context.Background()

	reviewed, err := svc.ReviewLeaveAt(ctx, adminSession, 1, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, "legacy b", reviewed.Reason)

	stored := store.snapshot()
	assert.Equal(t, entity.LeaveStatusPending, stored[0].Status)
	assert.Equal(t, entity.LeaveStatusRejected, stored[1].Status)

	_, err = svc.ReviewLeaveAt(ctx, adminSession, 2, DecisionReject)
	assert.ErrorIs(t, err, ErrLeaveNotFound)
	_, err = svc.ReviewLeaveAt(ctx, adminSession, -1, DecisionReject)
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestReviewLeave_JournalAndNotify(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{{ID: 3, EmployeeID: 7, Status: entity.LeaveStatusPending}}
	reviews := &mockReviewRepo{}
	notifier := &mockNotifier{}
	svc := newTestService(store, reviews, notifier, false)
	fixed := time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	_, err := svc.ReviewLeave(ctx, adminSession, 3, DecisionApprove)
	require.NoError(t, err)
	_, err = svc.ReviewLeave(ctx, adminSession, 3, DecisionReject)
	require.NoError(t, err)

	history, err := svc.ReviewHistory(ctx, adminSession, 3)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.LeaveStatusPending, history[0].PreviousStatus)
	assert.Equal(t, entity.LeaveStatusApproved, history[0].NewStatus)
	assert.Equal(t, entity.LeaveStatusApproved, history[1].PreviousStatus)
	assert.Equal(t, entity.LeaveStatusRejected, history[1].NewStatus)
	assert.Equal(t, 0, history[0].ReviewerID)
	assert.Equal(t, fixed, history[0].Timestamp)

	assert.Equal(t, []entity.LeaveStatus{entity.LeaveStatusApproved, entity.LeaveStatusRejected}, notifier.reviewed)

	_, err = svc.ReviewHistory(ctx, aliceSession, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReviewLeave_SideChannelFailuresIgnored(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{{ID: 1, EmployeeID: 7, Status: entity.LeaveStatusPending}}
	reviews := &mockReviewRepo{createFunc: func(ctx context.Context, record *entity.ReviewRecord) error {
		return errors.New("database is locked")
	}}
	notifier := &mockNotifier{err: errors.New("lark unavailable")}
	svc := newTestService(store, reviews, notifier, true)

	reviewed, err := svc.ReviewLeave(context.Background(), adminSession, 1, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, entity.LeaveStatusApproved, reviewed.Status)
	assert.Equal(t, entity.LeaveStatusApproved, store.snapshot()[0].Status)
}

func TestReviewHistory_NoJournal(t *testing.T) {
	svc := newTestService(seededStore(), nil, nil, false)

	history, err := svc.ReviewHistory(context.Background(), adminSession, 1)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestWritePolicy(t *testing.T) {
	diskFull := errors.New("no space left on device")

	t.Run("lenient reports success", func(t *testing.T) {
		store := seededStore()
		store.saveLeavesFunc = func([]entity.LeaveApplication) error { return diskFull }
		svc := newTestService(store, nil, nil, false)

		leave, err := svc.SubmitLeave(context.Background(), aliceSession, SubmitLeaveInput{StartDate: "2024-05-01", EndDate: "2024-05-03"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), leave.ID)
		assert.Empty(t, store.snapshot())
	})

	t.Run("strict surfaces submission failure", func(t *testing.T) {
		store := seededStore()
		store.saveLeavesFunc = func([]entity.LeaveApplication) error { return diskFull }
		svc := newTestService(store, nil, nil, true)

		leave, err := svc.SubmitLeave(context.Background(), aliceSession, SubmitLeaveInput{StartDate: "2024-05-01", EndDate: "2024-05-03"})
		assert.ErrorIs(t, err, diskFull)
		assert.Nil(t, leave)
	})

	t.Run("strict surfaces review failure", func(t *testing.T) {
		store := seededStore()
		store.leaves = []entity.LeaveApplication{{ID: 1, EmployeeID: 7, Status: entity.LeaveStatusPending}}
		store.saveLeavesFunc = func([]entity.LeaveApplication) error { return diskFull }
		reviews := &mockReviewRepo{}
		svc := newTestService(store, reviews, nil, true)

		_, err := svc.ReviewLeave(context.Background(), adminSession, 1, DecisionApprove)
		assert.ErrorIs(t, err, diskFull)
		assert.Equal(t, entity.LeaveStatusPending, store.snapshot()[0].Status)
		assert.Empty(t, reviews.records)
	})

	t.Run("strict refuses to overwrite corrupt document", func(t *testing.T) {
		store := seededStore()
		store.source = port.SourceCorrupt
		svc := newTestService(store, nil, nil, true)

		_, err := svc.SubmitLeave(context.Background(), aliceSession, SubmitLeaveInput{StartDate: "2024-05-01", EndDate: "2024-05-03"})
		assert.ErrorIs(t, err, ErrDocumentCorrupt)
		assert.Zero(t, store.saves)
	})

	t.Run("lenient replaces corrupt document", func(t *testing.T) {
		store := seededStore()
		store.source = port.SourceCorrupt
		svc := newTestService(store, nil, nil, false)

		_, err := svc.SubmitLeave(context.Background(), aliceSession, SubmitLeaveInput{StartDate: "2024-05-01", EndDate: "2024-05-03"})
		require.NoError(t, err)
		assert.Len(t, store.snapshot(), 1)
	})
}

func TestListLeaves(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{
		{ID: 2, EmployeeID: 8, Status: entity.LeaveStatusPending},
		{ID: 1, EmployeeID: 7, Status: entity.LeaveStatusApproved},
	}
	svc := newTestService(store, nil, nil, false)
	ctx := context.Background()

	leaves, err := svc.ListLeaves(ctx, adminSession)
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Equal(t, int64(2), leaves[0].ID)
	assert.Equal(t, int64(1), leaves[1].ID)

	_, err = svc.ListLeaves(ctx, aliceSession)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDashboard(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{
		{ID: 1, EmployeeID: 7, Reason: "first"},
		{ID: 2, EmployeeID: 8, Reason: "other"},
		{ID: 3, EmployeeID: 7, Reason: "second"},
	}
	svc := newTestService(store, nil, nil, false)
	ctx := context.Background()

	dashboard, err := svc.Dashboard(ctx, aliceSession)
	require.NoError(t, err)
	assert.Equal(t, 7, dashboard.EmployeeID)
	assert.Equal(t, "alice", dashboard.Name)
	assert.Equal(t, 10, dashboard.LeaveBalance)
	require.Len(t, dashboard.Leaves, 2)
	assert.Equal(t, "first", dashboard.Leaves[0].Reason)
	assert.Equal(t, "second", dashboard.Leaves[1].Reason)

	_, err = svc.Dashboard(ctx, Session{EmployeeID: 99, Name: "ghost", Role: RoleEmployee})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = svc.Dashboard(ctx, Session{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConcurrentSubmissions(t *testing.T) {
	store := seededStore()
	svc := newTestService(store, nil, nil, true)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitLeave(context.Background(), aliceSession, SubmitLeaveInput{StartDate: "2024-05-01", EndDate: "2024-05-02"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored := store.snapshot()
	require.Len(t, stored, n)
	seen := make(map[int64]bool, n)
	for _, leave := range stored {
		assert.False(t, seen[leave.ID], "duplicate id %d", leave.ID)
		seen[leave.ID] = true
	}
}

func TestNewSession(t *testing.T) {
	admin := NewSession(entity.Employee{ID: 0, Name: "admin"})
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.Valid())

	employee := NewSession(entity.Employee{ID: 3, Name: "zoe"})
	assert.False(t, employee.IsAdmin())
	assert.True(t, employee.Valid())

	assert.False(t, Session{}.Valid())
}

func TestReviewLeave_RejectsUnassignedID(t *testing.T) {
	store := seededStore()
	store.leaves = []entity.LeaveApplication{
		{ID: 0, EmployeeID: 7, Status: entity.LeaveStatusPending},
		{ID: 0, EmployeeID: 8, Status: entity.LeaveStatusPending},
	}
	svc := newTestService(store, nil, nil, false)
	ctx := context.Background()

	_, err := svc.ReviewLeave(ctx, adminSession, 0, DecisionApprove)
	require.ErrorIs(t, err, ErrLeaveNotFound)
	assert.Contains(t, err.Error(), "position")

	_, err = svc.ReviewLeave(ctx, adminSession, -3, DecisionApprove)
	assert.ErrorIs(t, err, ErrLeaveNotFound)

	_, err = svc.ReviewLeave(ctx, aliceSession, 0, DecisionApprove)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Zero(t, store.saves)
}

func TestAllowedDecisions(t *testing.T) {
	tests := []entity.LeaveStatus{
		entity.LeaveStatusPending,
		entity.LeaveStatusApproved,
		entity.LeaveStatusRejected,
		entity.LeaveStatus("On hold"),
	}

	for _, status := range tests {
		t.Run(string(status), func(t *testing.T) {
			assert.Equal(t, []Decision{DecisionApprove, DecisionReject}, AllowedDecisions(status))
		})
	}
}

func TestReadsDoNotSeePartialWrites(t *testing.T) {
	files := storage.NewLocalFileStorage(t.TempDir(), zap.NewNop())
	store := jsonstore.New(files, jsonstore.Config{EmployeesFile: "employees.json", LeavesFile: "leaves.json"}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.SaveEmployees(ctx, seededStore().employees))
	const total = 300
	seed := make([]entity.LeaveApplication, 0, total)
	for i := 1; i <= total; i++ {
		seed = append(seed, entity.LeaveApplication{
			ID:         int64(i),
			EmployeeID: 7,
			StartDate:  entity.NewDate(2024, time.June, 1),
			EndDate:    entity.NewDate(2024, time.June, 2),
			Reason:     "family visit",
			Status:     entity.LeaveStatusPending,
		})
	}
	require.NoError(t, store.SaveLeaves(ctx, seed))

	svc := NewLeaveService(store, store, nil, nil, LeaveServiceConfig{StrictWrites: true}, zap.NewNop())

	var (
		wg    sync.WaitGroup
		done  = make(chan struct{})
		short []int
		mu    sync.Mutex
	)
	record := func(n int) {
		if n != total {
			mu.Lock()
			short = append(short, n)
			mu.Unlock()
		}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			leaves, err := svc.ListLeaves(ctx, adminSession)
			if assert.NoError(t, err) {
				record(len(leaves))
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			dashboard, err := svc.Dashboard(ctx, aliceSession)
			if assert.NoError(t, err) {
				record(len(dashboard.Leaves))
			}
		}
	}()

	for i := 0; i < 150; i++ {
		decision := DecisionApprove
		if i%2 == 1 {
			decision = DecisionReject
		}
		_, err := svc.ReviewLeave(ctx, adminSession, int64(i%total)+1, decision)
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	assert.Empty(t, short, "readers saw a truncated leave document")
	assert.Len(t, store.LoadLeaves(ctx).Items, total)
}
