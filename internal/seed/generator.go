package seed

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/festboard/internal/domain/model"
)

const (
	dateLayout  = "2006-01-02"
	timeLayout  = "15:04"
	dayStart    = 9 * time.Hour
	slotLength  = 30 * time.Minute
	chestStride = 100
)

var (
	teamNames     = []string{"Red", "Blue", "Green", "Gold", "Violet", "Silver", "Coral", "Indigo"}
	categoryNames = []string{"Sub Junior", "Junior", "Senior", "General", "Primary", "Secondary", "Higher", "Open"}
	itemNames     = []string{
		"Elocution", "Light Music", "Essay Writing", "Group Song", "Poem Recitation", "Painting",
		"Drama", "Quiz", "Mono Act", "Folk Dance", "Story Telling", "Debate",
	}
	groupItems = map[string]bool{"Group Song": true, "Drama": true, "Folk Dance": true, "Debate": true}
	offStage   = map[string]bool{"Essay Writing": true, "Painting": true, "Quiz": true, "Story Telling": true}

	singlePoints = model.PrizePoints{First: 5, Second: 3, Third: 1}
	groupPoints  = model.PrizePoints{First: 10, Second: 6, Third: 3}
	gradeIDs     = []string{"A", "B", "C"}
)

// generator carries the random source and the id namespace of one run.
type generator struct {
	cfg Config
	rng *rand.Rand
	ns  uuid.UUID
}

// Generate builds a snapshot from cfg. The same config always yields the
// same snapshot.
func Generate(cfg Config) (*model.Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15)),
		ns:  uuid.NewSHA1(uuid.NameSpaceURL, []byte("festboard:seed:"+strconv.FormatInt(cfg.Seed, 10))),
	}

	s := &model.Snapshot{
		Version: 1,
		GradePoints: model.GradeTables{
			Single: []model.Grade{{ID: "A", Name: "A grade", Points: 5}, {ID: "B", Name: "B grade", Points: 3}, {ID: "C", Name: "C grade", Points: 1}},
			Group:  []model.Grade{{ID: "A", Name: "A grade", Points: 10}, {ID: "B", Name: "B grade", Points: 6}, {ID: "C", Name: "C grade", Points: 2}},
		},
	}
	s.Teams = g.teams()
	s.Categories = g.categories()
	s.Items = g.items(s.Categories)
	s.Participants = g.participants(s.Teams, s.Categories, s.Items)
	s.Results = g.results(s.Items, s.Participants)
	s.Schedule = g.schedule(s.Items)
	return s, nil
}

func (g *generator) id(kind string, n int) string {
	return uuid.NewSHA1(g.ns, []byte(kind+"/"+strconv.Itoa(n))).String()
}

func (g *generator) teams() []model.Team {
	out := make([]model.Team, g.cfg.Teams)
	for i := range out {
		name := fmt.Sprintf("Team %c", 'A'+i)
		if i < len(teamNames) {
			name = teamNames[i] + " House"
		}
		out[i] = model.Team{ID: g.id("team", i), Name: name}
	}
	return out
}

func (g *generator) categories() []model.Category {
	out := make([]model.Category, g.cfg.Categories)
	for i := range out {
		out[i] = model.Category{ID: g.id("category", i), Name: categoryNames[i]}
	}
	return out
}

func (g *generator) items(cats []model.Category) []model.Item {
	var out []model.Item
	for _, c := range cats {
		for _, k := range g.rng.Perm(len(itemNames))[:g.cfg.ItemsPerCategory] {
			name := itemNames[k]
			it := model.Item{
				ID:              g.id("item", len(out)),
				Name:            c.Name + " " + name,
				Type:            model.ItemSingle,
				PerformanceType: model.OnStage,
				CategoryID:      c.ID,
				Duration:        5 + g.rng.IntN(4)*5,
				Points:          singlePoints,
			}
			if groupItems[name] {
				it.Type = model.ItemGroup
				it.Points = groupPoints
			}
			if offStage[name] {
				it.PerformanceType = model.OffStage
			}
			if g.rng.IntN(5) == 0 {
				it.GradePointsOverride = map[string]int{"A": it.Points.Third + 1}
			}
			out = append(out, it)
		}
	}
	return out
}

// participants spreads each team across the categories. Chest numbers are
// numbered per team in blocks of chestStride.
func (g *generator) participants(teams []model.Team, cats []model.Category, items []model.Item) []model.Participant {
	byCategory := make(map[string][]string)
	for _, it := range items {
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it.ID)
	}

	var out []model.Participant
	for t, team := range teams {
		for i := 0; i < g.cfg.ParticipantsPerTeam; i++ {
			cat := cats[i%len(cats)]
			pool := byCategory[cat.ID]
			enrol := 1 + g.rng.IntN(min(3, len(pool)))
			ids := make([]string, 0, enrol)
			for _, k := range g.rng.Perm(len(pool))[:enrol] {
				ids = append(ids, pool[k])
			}
			out = append(out, model.Participant{
				ID:          g.id("participant", len(out)),
				ChestNumber: strconv.Itoa((t+1)*chestStride + i + 1),
				Name:        fmt.Sprintf("%s %d", firstWord(team.Name), i+1),
				TeamID:      team.ID,
				CategoryID:  cat.ID,
				ItemIDs:     ids,
			})
		}
	}
	return out
}

// results gives every item one result. Declared and uploaded results place
// up to three enrolled participants; not uploaded results have no winners.
func (g *generator) results(items []model.Item, people []model.Participant) []model.Result {
	enrolled := make(map[string][]string)
	for _, p := range people {
		for _, id := range p.ItemIDs {
			enrolled[id] = append(enrolled[id], p.ID)
		}
	}

	out := make([]model.Result, 0, len(items)+g.cfg.Orphans)
	for _, it := range items {
		r := model.Result{ID: g.id("result", len(out)), ItemID: it.ID, CategoryID: it.CategoryID}
		switch roll := g.rng.Float64(); {
		case roll < g.cfg.DeclaredRatio:
			r.Status = model.StatusDeclared
		case roll < g.cfg.DeclaredRatio+(1-g.cfg.DeclaredRatio)/2:
			r.Status = model.StatusUploaded
		default:
			r.Status = model.StatusNotUploaded
		}
		if r.Status != model.StatusNotUploaded {
			r.Winners = g.winners(enrolled[it.ID])
		}
		out = append(out, r)
	}

	for i := 0; i < g.cfg.Orphans && len(people) > 0; i++ {
		out = append(out, model.Result{
			ID:      g.id("result", len(out)),
			ItemID:  g.id("retired-item", i),
			Status:  model.StatusDeclared,
			Winners: []model.Winner{{ParticipantID: people[g.rng.IntN(len(people))].ID, Position: model.First}},
		})
	}
	return out
}

func (g *generator) winners(candidates []string) []model.Winner {
	n := min(len(candidates), len(model.Positions))
	out := make([]model.Winner, 0, n)
	for i, k := range g.rng.Perm(len(candidates))[:n] {
		w := model.Winner{ParticipantID: candidates[k], Position: model.Positions[i]}
		if g.rng.IntN(2) == 0 {
			w.GradeID = gradeIDs[g.rng.IntN(len(gradeIDs))]
		}
		out = append(out, w)
	}
	return out
}

// schedule deals items across days and stages in half-hour slots.
func (g *generator) schedule(items []model.Item) []model.ScheduledEvent {
	out := make([]model.ScheduledEvent, 0, len(items))
	perDay := (len(items) + g.cfg.Days - 1) / g.cfg.Days
	for i, k := range g.rng.Perm(len(items)) {
		it := items[k]
		day := i / perDay
		slot := (i % perDay) / g.cfg.Stages
		at := g.cfg.Start.AddDate(0, 0, day).Add(dayStart + time.Duration(slot)*slotLength)
		out = append(out, model.ScheduledEvent{
			ItemID:     it.ID,
			CategoryID: it.CategoryID,
			Date:       at.Format(dateLayout),
			Time:       at.Format(timeLayout),
			Stage:      strconv.Itoa(i%g.cfg.Stages + 1),
		})
	}
	return out
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
