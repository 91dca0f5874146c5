package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gradcheck/backend/config"
	"gradcheck/backend/internal/graduation"
	"gradcheck/backend/internal/model"
	"gradcheck/backend/internal/repository"
	pkgerrors "gradcheck/backend/pkg/errors"
	"gradcheck/backend/pkg/jwt"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // user_id → user
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("uid-%03d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStudentID(_ context.Context, studentID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.StudentID == studentID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context, major string, offset, limit int) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.User
	for _, u := range m.users {
		if major == "" || u.Major == major {
			all = append(all, *u)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

// ── Mock RequirementRepository ──

type mockRequirementRepo struct {
	mu   sync.Mutex
	reqs map[string]*model.GraduationRequirement
	seq  int
}

func newMockRequirementRepo() *mockRequirementRepo {
	return &mockRequirementRepo{reqs: make(map[string]*model.GraduationRequirement)}
}

func (m *mockRequirementRepo) Create(_ context.Context, req *model.GraduationRequirement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.RequirementID == "" {
		m.seq++
		req.RequirementID = fmt.Sprintf("req-%03d", m.seq)
	}
	if req.Version == 0 {
		req.Version = 1
	}
	cp := *req
	m.reqs[req.RequirementID] = &cp
	return nil
}

func (m *mockRequirementRepo) GetByID(_ context.Context, id string) (*model.GraduationRequirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reqs[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequirementRepo) GetByMajorYear(_ context.Context, major string, year int) (*model.GraduationRequirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reqs {
		if r.Major == major && r.Year == year {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// FindForMajor 입학년도 이하 중 최근 연도, 없으면 가장 최근 연도
func (m *mockRequirementRepo) FindForMajor(_ context.Context, major string, year int) (*model.GraduationRequirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.GraduationRequirement
	better := func(a, b *model.GraduationRequirement) bool {
		aIn, bIn := a.Year <= year, b.Year <= year
		if aIn != bIn {
			return aIn
		}
		return a.Year > b.Year
	}
	for _, r := range m.reqs {
		if r.Major != major {
			continue
		}
		if best == nil || better(r, best) {
			best = r
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *mockRequirementRepo) List(_ context.Context, major string, offset, limit int) ([]model.GraduationRequirement, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.GraduationRequirement
	for _, r := range m.reqs {
		if major == "" || r.Major == major {
			all = append(all, *r)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (m *mockRequirementRepo) Update(_ context.Context, req *model.GraduationRequirement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.reqs[req.RequirementID]
	if !ok || cur.Version != req.Version {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version++
	cp := *req
	m.reqs[req.RequirementID] = &cp
	return nil
}

func (m *mockRequirementRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reqs, id)
	return nil
}

// ── Mock TranscriptRepository ──

type mockTranscriptRepo struct {
	mu    sync.Mutex
	items []*model.Transcript // 생성 순서
	seq   int
}

func newMockTranscriptRepo() *mockTranscriptRepo {
	return &mockTranscriptRepo{}
}

func (m *mockTranscriptRepo) Create(_ context.Context, t *model.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if t.TranscriptID == "" {
		t.TranscriptID = fmt.Sprintf("tr-%03d", m.seq)
	}
	t.CreatedAt = time.Unix(int64(m.seq), 0)
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.items = append(m.items, &cp)
	return nil
}

func (m *mockTranscriptRepo) GetByID(_ context.Context, id string) (*model.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.items {
		if t.TranscriptID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTranscriptRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Transcript, error) {
	return m.GetByID(ctx, id)
}

func (m *mockTranscriptRepo) latest(userID string, doneOnly bool) (*model.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.items) - 1; i >= 0; i-- {
		t := m.items[i]
		if t.UserID != userID || (doneOnly && t.Status != model.TranscriptDone) {
			continue
		}
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTranscriptRepo) Latest(_ context.Context, userID string) (*model.Transcript, error) {
	return m.latest(userID, false)
}

func (m *mockTranscriptRepo) LatestDone(_ context.Context, userID string) (*model.Transcript, error) {
	return m.latest(userID, true)
}

func (m *mockTranscriptRepo) Update(_ context.Context, t *model.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.items {
		if cur.TranscriptID == t.TranscriptID {
			cp := *t
			m.items[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock Cache / TokenBlacklist ──

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return pkgerrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mockCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mockCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *mockCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []string
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}

type mockBlacklist struct {
	mu   sync.Mutex
	jtis map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{jtis: make(map[string]time.Duration)}
}

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = ttl
	return nil
}

func (b *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.jtis[jti]
	return ok, nil
}

// ── 공통 테스트 환경 ──

type testEnv struct {
	users       *mockUserRepo
	reqs        *mockRequirementRepo
	transcripts *mockTranscriptRepo
	cache       *mockCache
	blacklist   *mockBlacklist
	repo        *repository.Repository
	jwt         *jwt.Manager
	svc         *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:       newMockUserRepo(),
		reqs:        newMockRequirementRepo(),
		transcripts: newMockTranscriptRepo(),
		cache:       newMockCache(),
		blacklist:   newMockBlacklist(),
	}
	env.repo = &repository.Repository{
		User:        env.users,
		Requirement: env.reqs,
		Transcript:  env.transcripts,
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-tests",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
		Cache: config.CacheConfig{Enabled: true, EvaluationTTL: time.Minute},
	}
	env.jwt = jwt.NewManager(&cfg.Auth)
	env.svc = NewService(Deps{
		Config:    cfg,
		Repo:      env.repo,
		JWT:       env.jwt,
		Cache:     env.cache,
		Blacklist: env.blacklist,
		Logger:    zap.NewNop(),
	})
	return env
}

// addUser 비밀번호 "password123" 인 사용자 추가
func (e *testEnv) addUser(studentID, major string, entryYear int, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	u := &model.User{
		StudentID:    studentID,
		FullName:     "홍길동",
		EntryYear:    entryYear,
		Major:        major,
		PasswordHash: string(hash),
		Role:         role,
	}
	_ = e.users.Create(context.Background(), u)
	return u
}

// addRequirement 전공필수 세 과목과 드볼 세 영역을 가진 요건
func (e *testEnv) addRequirement(major string, year int) *model.GraduationRequirement {
	r := &model.GraduationRequirement{
		Major:                  major,
		Year:                   year,
		TotalRequired:          20,
		MajorRequired:          9,
		GeneralRequired:        3,
		DrbolRequired:          6,
		SpecialGeneralRequired: 0,
		SWRequired:             0,
		MSCRequired:            0,
		MajorMustCourses: []graduation.RequirementItem{
			{Code: "CS101", Name: "프로그래밍기초", Semester: "1-1"},
			{Code: "CS201", Name: "자료구조", Semester: "2-1"},
			{Code: "CS301", Name: "운영체제", Semester: "3-1"},
		},
		GeneralMustCourses: []graduation.RequirementItem{{Name: "글쓰기"}},
		DrbolAreas:         "인문과예술,사회와문화,자연과기술",
	}
	_ = e.reqs.Create(context.Background(), r)
	return r
}

// addDoneTranscript 처리 완료 성적표 추가
func (e *testEnv) addDoneTranscript(userID string, courses []graduation.CourseRecord) *model.Transcript {
	t := &model.Transcript{UserID: userID, Status: model.TranscriptDone, Source: model.SourceJSON}
	t.SetCourses(courses)
	_ = e.transcripts.Create(context.Background(), t)
	return t
}

func sampleCourses() []graduation.CourseRecord {
	return []graduation.CourseRecord{
		{Code: "CS101", Name: "프로그래밍기초", Credit: 3, Type: "전공필수", Grade: "A+", Semester: "1-1"},
		{Code: "CS201", Name: "자료구조", Credit: 3, Type: "전공필수", Grade: "B0", Semester: "2-1"},
		{Code: "CS301", Name: "운영체제", Credit: 3, Type: "전공필수", Grade: "F", Semester: "3-1"},
		{Name: "글쓰기", Credit: 3, Type: "교양필수", Grade: "A0", Semester: "1-1"},
		{Name: "철학의이해", Credit: 3, Type: "드볼", MajorField: "인문과예술", Grade: "A0", Semester: "1-2"},
		{Name: "경제학원론", Credit: 3, Type: "드볼", MajorField: "사회와문화", Grade: "B+", Semester: ""},
	}
}

func callerOf(u *model.User) Caller {
	return Caller{UserID: u.UserID, Role: u.Role}
}
