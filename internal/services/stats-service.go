package services

import (
	"context"
	"errors"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/stats"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Section is one independently loaded part of a statistics page. A failed section
// carries an error message while its siblings still render.
type Section[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

func ok[T any](data T) Section[T] {
	return Section[T]{Data: data}
}

func failed[T any](section string, err error) Section[T] {
	if errors.Is(err, stats.ErrNoMatch) {
		return Section[T]{Error: err.Error()}
	}
	log.WithError(err).WithField("section", section).Warn("Statistics section unavailable")
	return Section[T]{Error: "could not load " + section}
}

// Totals summarises a period
type Totals struct {
	Pizzas         int    `json:"pizzas"`
	Users          int    `json:"users"`
	AveragePerUser string `json:"average_per_user"`
}

// NamedStat is an ingredient's usage with its catalog name
type NamedStat struct {
	IngredientID  uint   `json:"ingredient_id"`
	Name          string `json:"name"`
	Uses          int    `json:"uses"`
	Share         string `json:"share"`
	AverageRating string `json:"average_rating"`
}

// NamedCombination is a combination with the names of its ingredients
type NamedCombination struct {
	Key           string   `json:"key"`
	IngredientIDs []uint   `json:"ingredient_ids"`
	Names         []string `json:"names"`
	Count         int      `json:"count"`
}

// GlobalStats is the statistics dashboard over every user
type GlobalStats struct {
	Year         int                         `json:"year"`
	Month        time.Month                  `json:"month,omitempty"`
	Totals       Section[Totals]             `json:"totals"`
	Leaderboard  Section[LeaderboardView]    `json:"leaderboard"`
	Weekdays     Section[[]stats.Share]      `json:"weekdays"`
	Months       Section[[]stats.Share]      `json:"months"`
	Weekly       Section[[]stats.WeekBucket] `json:"weekly"`
	Ingredients  Section[[]NamedStat]        `json:"ingredients"`
	TopRated     Section[[]NamedStat]        `json:"top_rated"`
	Combinations Section[[]NamedCombination] `json:"combinations"`
}

// Home is the landing page of the signed-in user
type Home struct {
	Year            int               `json:"year"`
	Total           YearTotal         `json:"total"`
	MonthCount      int               `json:"month_count"`
	Highlights      []stats.Highlight `json:"highlights"`
	IngredientNames map[uint]string   `json:"ingredient_names"`
	NeedsOnboarding bool              `json:"needs_onboarding"`
}

// ProfileView is another user's profile as the viewer is allowed to see it
type ProfileView struct {
	Profile         models.Profile      `json:"profile"`
	PizzasHidden    bool                `json:"pizzas_hidden"`
	Total           *YearTotal          `json:"total,omitempty"`
	Ranks           *stats.ProfileRanks `json:"ranks,omitempty"`
	IngredientNames map[uint]string     `json:"ingredient_names,omitempty"`
}

// StatsService builds the global dashboard, the home highlights and profile ranks
type StatsService interface {
	// Global aggregates every user's pizzas in the query's period
	Global(ctx context.Context, viewer uint, q LeaderboardQuery) (GlobalStats, error)
	// Combinations lists every combination seen at least once; year 0 is all time
	Combinations(ctx context.Context, year int) ([]NamedCombination, error)
	// Home returns the viewer's counters and top-10 highlights for the current year
	Home(ctx context.Context, viewer uint) (Home, error)
	// Profile returns the ranks of username, subject to its visibility settings
	Profile(ctx context.Context, viewer uint, username string) (ProfileView, error)
}

type statsService struct {
	db       *gorm.DB
	profiles ProfileService
	now      func() time.Time
}

func NewStatsService(db *gorm.DB, profiles ProfileService) StatsService {
	return &statsService{db: db, profiles: profiles, now: time.Now}
}

func (s *statsService) Global(ctx context.Context, viewer uint, q LeaderboardQuery) (GlobalStats, error) {
	if err := q.validate(); err != nil {
		return GlobalStats{}, err
	}
	from, to := q.bounds()
	out := GlobalStats{Year: q.Year, Month: q.Month}

	logger := log.WithFields(logrus.Fields{"viewer": viewer, "year": q.Year, "month": int(q.Month)})
	logger.Debug("Building global statistics")

	pizzas, err := store.PizzaRows(ctx, s.db, store.Scope{From: from, To: to})
	if err != nil {
		out.Totals = failed[Totals]("totals", err)
		out.Leaderboard = failed[LeaderboardView]("leaderboard", err)
		out.Weekdays = failed[[]stats.Share]("weekdays", err)
		out.Months = failed[[]stats.Share]("months", err)
		out.Weekly = failed[[]stats.WeekBucket]("weekly averages", err)
	} else {
		out.Totals = ok(totals(pizzas))
		out.Leaderboard = s.globalBoard(ctx, pizzas, viewer, q)
		dates := stats.Dates(pizzas)
		weekdays, months := stats.ByWeekday(dates), stats.ByMonth(dates)
		out.Weekdays = ok(stats.Shares(weekdays[:], 1))
		out.Months = ok(stats.Shares(months[:], 1))
		out.Weekly = ok(stats.WeeklyAverage(pizzas, from, s.periodEnd(to)))
	}

	joins, err := store.IngredientRows(ctx, s.db, store.Scope{From: from, To: to})
	if err != nil {
		out.Ingredients = failed[[]NamedStat]("ingredients", err)
		out.TopRated = failed[[]NamedStat]("top rated ingredients", err)
		out.Combinations = failed[[]NamedCombination]("combinations", err)
		return out, nil
	}
	names, err := store.IngredientNames(ctx, s.db, lo.Map(joins, func(r models.PizzaIngredientRow, _ int) uint { return r.IngredientID }))
	if err != nil {
		out.Ingredients = failed[[]NamedStat]("ingredients", err)
		out.TopRated = failed[[]NamedStat]("top rated ingredients", err)
		out.Combinations = failed[[]NamedCombination]("combinations", err)
		return out, nil
	}
	pizzaCount := len(lo.Uniq(lo.Map(joins, func(r models.PizzaIngredientRow, _ int) uint { return r.PizzaID })))
	usage := stats.IngredientUsage(joins)
	out.Ingredients = ok(namedStats(usage, names, pizzaCount))
	out.TopRated = ok(namedStats(stats.TopByRating(usage, stats.MinUsesForRating), names, pizzaCount))
	out.Combinations = ok(namedCombinations(stats.Combinations(joins, stats.DashboardMinCombination), names))
	return out, nil
}

func (s *statsService) globalBoard(ctx context.Context, pizzas []models.PizzaRow, viewer uint, q LeaderboardQuery) Section[LeaderboardView] {
	entries, err := labelled(ctx, s.db, pizzas, viewer)
	if err != nil {
		return failed[LeaderboardView]("leaderboard", err)
	}
	view, err := window(entries, q)
	if err != nil {
		return failed[LeaderboardView]("leaderboard", err)
	}
	return ok(view)
}

// periodEnd stops weekly buckets at the end of today for a period still running
func (s *statsService) periodEnd(to time.Time) time.Time {
	tomorrow := today(s.now()).AddDate(0, 0, 1)
	if tomorrow.Before(to) {
		return tomorrow
	}
	return to
}

func totals(pizzas []models.PizzaRow) Totals {
	users := len(lo.Uniq(stats.UserIDs(pizzas)))
	return Totals{
		Pizzas:         len(pizzas),
		Users:          users,
		AveragePerUser: stats.FormatOptional(stats.Ratio(float64(len(pizzas)), float64(users)), 1),
	}
}

func namedStats(usage []stats.IngredientStat, names map[uint]string, pizzas int) []NamedStat {
	return lo.Map(usage, func(u stats.IngredientStat, _ int) NamedStat {
		return NamedStat{
			IngredientID:  u.IngredientID,
			Name:          names[u.IngredientID],
			Uses:          u.Uses,
			Share:         stats.FormatDecimal(stats.Percent(float64(u.Uses), float64(pizzas)), 1) + "%",
			AverageRating: stats.FormatOptional(u.AverageRating, 1),
		}
	})
}

func namedCombinations(combos []stats.Combination, names map[uint]string) []NamedCombination {
	return lo.Map(combos, func(c stats.Combination, _ int) NamedCombination {
		return NamedCombination{
			Key:           c.Key,
			IngredientIDs: c.IngredientIDs,
			Names:         lo.Map(c.IngredientIDs, func(id uint, _ int) string { return names[id] }),
			Count:         c.Count,
		}
	})
}

func (s *statsService) Combinations(ctx context.Context, year int) ([]NamedCombination, error) {
	var scope store.Scope
	if year != 0 {
		scope.From, scope.To = stats.YearBounds(year)
	}
	joins, err := store.IngredientRows(ctx, s.db, scope)
	if err != nil {
		return nil, err
	}
	combos := stats.Combinations(joins, stats.PageMinCombination)
	var ids []uint
	for _, c := range combos {
		ids = append(ids, c.IngredientIDs...)
	}
	names, err := store.IngredientNames(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	return namedCombinations(combos, names), nil
}

func (s *statsService) Home(ctx context.Context, viewer uint) (Home, error) {
	now := s.now().UTC()
	profile, err := s.profiles.Get(ctx, viewer)
	if err != nil {
		return Home{}, err
	}

	from, to := stats.YearBounds(now.Year())
	pizzas, err := store.PizzaRows(ctx, s.db, store.Scope{From: from, To: to})
	if err != nil {
		return Home{}, err
	}
	joins, err := store.IngredientRows(ctx, s.db, store.Scope{From: from, To: to})
	if err != nil {
		return Home{}, err
	}
	base, err := store.BaseCounts(ctx, s.db, now.Year(), []uint{viewer})
	if err != nil {
		return Home{}, err
	}

	own := lo.Filter(pizzas, func(r models.PizzaRow, _ int) bool { return r.UserID == viewer })
	monthFrom, monthTo := stats.MonthBounds(now.Year(), now.Month())
	home := Home{
		Year:            now.Year(),
		Total:           YearTotal{Year: now.Year(), Count: len(own), BaseCount: base[viewer], Total: base[viewer] + len(own)},
		MonthCount:      len(stats.InRange(own, monthFrom, monthTo)),
		Highlights:      stats.HomeHighlights(viewer, now, pizzas, joins),
		NeedsOnboarding: profile.NeedsOnboarding,
	}
	if home.Highlights == nil {
		home.Highlights = []stats.Highlight{}
	}
	home.IngredientNames, err = store.IngredientNames(ctx, s.db, highlightIngredients(home.Highlights))
	if err != nil {
		return Home{}, err
	}
	return home, nil
}

func highlightIngredients(hs []stats.Highlight) []uint {
	return lo.FilterMap(hs, func(h stats.Highlight, _ int) (uint, bool) {
		return h.IngredientID, h.IngredientID != 0
	})
}

func (s *statsService) Profile(ctx context.Context, viewer uint, username string) (ProfileView, error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return ProfileView{}, err
	}
	view := ProfileView{Profile: profile}

	showEmail, err := s.profiles.CanViewEmail(ctx, viewer, profile)
	if err != nil {
		return ProfileView{}, err
	}
	if showEmail {
		var user models.User
		if err := s.db.WithContext(ctx).Select("email").First(&user, profile.ID).Error; err == nil {
			view.Profile.Email = user.Email
		}
	}

	showPizzas, err := s.profiles.CanViewPizzas(ctx, viewer, profile)
	if err != nil {
		return ProfileView{}, err
	}
	if !showPizzas {
		view.PizzasHidden = true
		return view, nil
	}

	now := s.now().UTC()
	in := stats.ProfileInput{PriorYear: now.Year() - 1, Now: now}
	priorFrom, priorTo := stats.YearBounds(in.PriorYear)
	if in.PriorYearPizzas, err = store.PizzaRows(ctx, s.db, store.Scope{From: priorFrom, To: priorTo}); err != nil {
		return ProfileView{}, err
	}
	from, to := stats.YearBounds(now.Year())
	if in.YearPizzas, err = store.PizzaRows(ctx, s.db, store.Scope{From: from, To: to}); err != nil {
		return ProfileView{}, err
	}
	if in.YearIngredients, err = store.IngredientRows(ctx, s.db, store.Scope{From: from, To: to}); err != nil {
		return ProfileView{}, err
	}
	base, err := store.BaseCounts(ctx, s.db, now.Year(), []uint{profile.ID})
	if err != nil {
		return ProfileView{}, err
	}

	count := len(lo.Filter(in.YearPizzas, func(r models.PizzaRow, _ int) bool { return r.UserID == profile.ID }))
	view.Total = &YearTotal{Year: now.Year(), Count: count, BaseCount: base[profile.ID], Total: base[profile.ID] + count}

	ranks := stats.Ranks(profile.ID, in)
	view.Ranks = &ranks
	ids := highlightIngredients(ranks.Ingredients)
	if ranks.BestIngredient != nil {
		ids = append(ids, ranks.BestIngredient.IngredientID)
	}
	if view.IngredientNames, err = store.IngredientNames(ctx, s.db, ids); err != nil {
		return ProfileView{}, err
	}
	return view, nil
}
