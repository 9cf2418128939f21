package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/cubefield/internal/config"
	"github.com/vovakirdan/cubefield/internal/core"
	"github.com/vovakirdan/cubefield/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want GameAction
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, GameActionSteerLeft},
		{runeKey('a'), GameActionSteerLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, GameActionSteerRight},
		{runeKey('d'), GameActionSteerRight},
		{runeKey('r'), GameActionRestart},
		{runeKey('p'), GameActionPause},
		{tea.KeyMsg{Type: tea.KeyTab}, GameActionDifficulty},
		{tea.KeyMsg{Type: tea.KeyEsc}, GameActionBack},
		{runeKey('q'), GameActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, GameActionQuit},
		{runeKey('x'), GameActionNone},
	}
	for _, tc := range tests {
		if got := km.MapKey(tc.msg); got != tc.want {
			t.Errorf("MapKey(%q) = %d, expected %d", tc.msg.String(), got, tc.want)
		}
	}
}

func TestGameActionIntent(t *testing.T) {
	if GameActionSteerLeft.Intent() != core.IntentSteerLeft ||
		GameActionSteerRight.Intent() != core.IntentSteerRight ||
		GameActionRestart.Intent() != core.IntentRestart ||
		GameActionPause.Intent() != core.IntentNone {
		t.Error("GameAction.Intent() mapping is wrong")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}
	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.want {
			t.Errorf("MapKeyToMenuAction(%q) = %d, expected %d", tc.msg.String(), got, tc.want)
		}
	}
}

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.World.SpawnProbability = 0
	m, err := NewModel(GameOptions{
		Config:     cfg,
		Difficulty: config.DifficultyEasy,
		Runtime:    core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1},
		Store:      store,
	})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm
}

func TestModelTicksAndPause(t *testing.T) {
	m := newTestModel(t, nil)
	t0 := time.Unix(1000, 0)

	m = step(t, m, TickMsg(t0))
	m = step(t, m, TickMsg(t0.Add(16*time.Millisecond)))
	if got := m.Status().Score; got != 2 {
		t.Fatalf("score after two ticks = %g, expected 2", got)
	}

	m = step(t, m, runeKey('p'))
	m = step(t, m, TickMsg(t0.Add(32*time.Millisecond)))
	if got := m.Status().Score; got != 2 {
		t.Errorf("score changed while paused: %g", got)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("paused view should say PAUSED")
	}

	m = step(t, m, runeKey('p'))
	m = step(t, m, TickMsg(t0.Add(time.Hour)))
	if got := m.Status().Score; got != 3 {
		t.Errorf("score after resume = %g, expected 3", got)
	}
}

func TestModelSteeringUsesLatch(t *testing.T) {
	m := newTestModel(t, nil)
	now := time.Now()

	m = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = step(t, m, TickMsg(now))
	if drift := m.sim.Snapshot().Drift; drift >= 0 {
		t.Errorf("drift after left = %g, expected negative", drift)
	}

	// Long after the hold window the steering lets go
	m = step(t, m, TickMsg(now.Add(5*time.Second)))
	if drift := m.sim.Snapshot().Drift; drift != 0 {
		t.Errorf("drift after release = %g, expected 0", drift)
	}
}

func TestModelCyclesDifficulty(t *testing.T) {
	m := newTestModel(t, nil)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Difficulty() != config.DifficultyMedium {
		t.Errorf("difficulty after tab = %q, expected medium", m.Difficulty())
	}
}

func TestModelRecordsFinishedRun(t *testing.T) {
	store, err := storage.OpenSession()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	m.sim.Place(mgl64.Vec2{0, 0.3}, mgl64.Vec2{0, -0.004})

	t0 := time.Unix(0, 0)
	for i := 0; i < 100 && m.Status().Alive; i++ {
		m = step(t, m, TickMsg(t0.Add(time.Duration(i)*16*time.Millisecond)))
	}
	if m.Status().Alive {
		t.Fatal("expected the run to end")
	}

	runs, err := store.TopRuns(string(config.DifficultyEasy), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Score != m.Status().Score {
		t.Errorf("recorded runs = %+v, expected one with score %g", runs, m.Status().Score)
	}

	m = step(t, m, runeKey('r'))
	m = step(t, m, TickMsg(t0.Add(time.Hour)))
	if !m.Status().Alive || m.Status().Score != 0 {
		t.Errorf("status after restart = %+v", m.Status())
	}
}

func TestModelBackAndQuit(t *testing.T) {
	m := newTestModel(t, nil)
	back := step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || back.View() != "" {
		t.Error("esc should leave for the menu")
	}
	quit := step(t, m, runeKey('q'))
	if quit.IsGoingBack() || quit.View() != "" {
		t.Error("q should quit without going back")
	}
}

func TestMenuSelectsDifficulty(t *testing.T) {
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}
	m := NewMenuModel(config.DefaultConfig(), nil, config.DifficultyMedium, rt)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	if m.Selected() == nil || m.Selected().Difficulty != config.DifficultyHard {
		t.Errorf("Selected() = %+v, expected hard", m.Selected())
	}
}

func TestScoreboardCyclesLevels(t *testing.T) {
	store, err := storage.OpenSession()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	store.SaveRun(storage.Run{Difficulty: "luck", Score: 77, Ticks: 8})

	m := NewScoreboardModel(store, config.DifficultyImpossible, 100, 30)
	if len(m.runs) != 0 {
		t.Errorf("impossible should have no runs, got %d", len(m.runs))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.levels[m.cursor] != config.DifficultyLuck || len(m.runs) != 1 {
		t.Fatalf("after tab: level %q, %d runs", m.levels[m.cursor], len(m.runs))
	}
	if !strings.Contains(m.View(), "Luck") {
		t.Error("view should name the selected level")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.levels[m.cursor] != config.DifficultyEasy {
		t.Errorf("tab should wrap to easy, got %q", m.levels[m.cursor])
	}
}

func TestScoreboardRecentView(t *testing.T) {
	store, err := storage.OpenSession()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	store.SaveRun(storage.Run{Difficulty: "easy", Score: 12, Ticks: 12})
	store.SaveRun(storage.Run{Difficulty: "hard", Score: 90, Ticks: 30})
	store.SaveRun(storage.Run{Difficulty: "easy", Score: 40, Ticks: 40})

	m := NewScoreboardModel(store, config.DifficultyEasy, 100, 30)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(ScoreboardModel)

	if !m.recent || len(m.runs) != 3 {
		t.Fatalf("recent view: recent=%v with %d runs, expected 3", m.recent, len(m.runs))
	}
	if m.runs[0].Score != 40 {
		t.Errorf("newest run first, got score %g", m.runs[0].Score)
	}
	stats := m.renderStats()
	for _, want := range []string{"runs 3", "levels 2", "best 90 (Hard)", "ticks 82"} {
		if !strings.Contains(stats, want) {
			t.Errorf("session stats %q missing %q", stats, want)
		}
	}
	if !strings.Contains(m.View(), "Recent") {
		t.Error("view should name the recent view")
	}

	// Switching level leaves the recent view
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.recent || m.levels[m.cursor] != config.DifficultyMedium {
		t.Errorf("after tab: recent=%v level %q", m.recent, m.levels[m.cursor])
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorRed)
	s.DrawText(2, 0, "cd")
	out := RenderScreen(s)
	for _, want := range []string{"ab", "cd"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() lost %q: %q", want, out)
		}
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() should keep 2 rows: %q", out)
	}
}
