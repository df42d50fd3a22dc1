// Package catalog implements the Company aggregate: an insertion-ordered,
// in-memory collection of games with validated admission, lookup by code,
// removal and the best-rated and release-period queries.
//
// A Company is not safe for concurrent use. Every query is a linear scan.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	e "github.com/gartstein/catalog/internal/company/errors"
	"github.com/gartstein/catalog/internal/company/events"
	"github.com/gartstein/catalog/internal/company/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxRating = 5.0

// Clock returns the current host time. Only its calendar day is used.
type Clock func() time.Time

// EventProducer receives catalog change notifications.
type EventProducer interface {
	Produce(eventType events.EventType, companyID uuid.UUID, game *models.Game)
}

// Option configures a Company.
type Option func(*Company)

// WithClock replaces the host clock used to reject future release dates.
func WithClock(clock Clock) Option {
	return func(c *Company) {
		c.clock = clock
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Company) {
		c.logger = logger.Named("catalog")
	}
}

// WithProducer publishes admissions and removals to producer.
func WithProducer(producer EventProducer) Option {
	return func(c *Company) {
		c.producer = producer
	}
}

// Company owns an ordered collection of games and a display name.
type Company struct {
	id       uuid.UUID
	name     string
	games    []*models.Game
	clock    Clock
	logger   *zap.Logger
	producer EventProducer
}

// NewCompany returns an empty Company labelled name.
func NewCompany(name string, opts ...Option) *Company {
	c := &Company{
		id:     uuid.New(),
		name:   name,
		games:  make([]*models.Game, 0),
		clock:  time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the identifier assigned to the company at construction.
func (c *Company) ID() uuid.UUID { return c.id }

// Name returns the display label.
func (c *Company) Name() string { return c.name }

// SetName replaces the display label. It is not validated.
func (c *Company) SetName(name string) { c.name = name }

// Len returns the number of stored games.
func (c *Company) Len() int { return len(c.games) }

// Games returns the stored games in insertion order.
// The returned slice is a copy; the games themselves are shared.
func (c *Company) Games() []*models.Game {
	out := make([]*models.Game, len(c.games))
	copy(out, c.games)
	return out
}

// Admit validates every field of game and appends it to the collection.
// The first failing check is reported as ErrInvalidGame and nothing is stored.
func (c *Company) Admit(game *models.Game) error {
	if err := c.validate(game); err != nil {
		c.logger.Warn("Game rejected", zap.String("code", codeOf(game)), zap.Error(err))
		return err
	}

	c.games = append(c.games, game)
	c.logger.Debug("Game admitted",
		zap.String("code", game.Code),
		zap.Int("games", len(c.games)),
	)
	c.publish(events.GameAdmitted, game)
	return nil
}

func (c *Company) validate(game *models.Game) error {
	if game == nil {
		return fmt.Errorf("%w: game is nil", e.ErrInvalidGame)
	}
	if isBlank(game.Code) {
		return fmt.Errorf("%w: code is blank", e.ErrInvalidGame)
	}
	if isBlank(game.Name) {
		return fmt.Errorf("%w: name is blank", e.ErrInvalidGame)
	}
	if isBlank(game.Genre) {
		return fmt.Errorf("%w: genre is blank", e.ErrInvalidGame)
	}
	if game.Price == nil || !game.Price.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: price must be greater than zero", e.ErrInvalidGame)
	}
	if game.Rating == nil || !(*game.Rating >= 0 && *game.Rating <= maxRating) {
		return fmt.Errorf("%w: rating must be between 0 and 5", e.ErrInvalidGame)
	}
	if game.ReleaseDate == nil {
		return fmt.Errorf("%w: release date is missing", e.ErrInvalidGame)
	}
	today := models.DateOf(c.clock())
	if game.ReleaseDate.After(today) {
		return fmt.Errorf("%w: release date %s is after %s", e.ErrInvalidGame, game.ReleaseDate, today)
	}
	return nil
}

// FindByCode returns the first game, in insertion order, whose code equals code exactly.
// When several games share a code only the earliest admitted one is reachable.
func (c *Company) FindByCode(code string) (*models.Game, error) {
	_, game, err := c.lookup(code)
	return game, err
}

// RemoveByCode removes the game FindByCode would return.
// The remaining games keep their relative order; on error nothing changes.
func (c *Company) RemoveByCode(code string) error {
	idx, game, err := c.lookup(code)
	if err != nil {
		return err
	}

	c.games = slices.Delete(c.games, idx, idx+1)
	c.logger.Debug("Game removed",
		zap.String("code", code),
		zap.Int("games", len(c.games)),
	)
	c.publish(events.GameRemoved, game)
	return nil
}

func (c *Company) lookup(code string) (int, *models.Game, error) {
	if isBlank(code) {
		return -1, nil, fmt.Errorf("%w: code is blank", e.ErrInvalidArgument)
	}
	for i, g := range c.games {
		if g.Code == code {
			return i, g, nil
		}
	}
	return -1, nil, fmt.Errorf("%w: no game with code %q", e.ErrGameNotFound, code)
}

// BestRated returns the game with the highest rating. Equal ratings go to the
// later release date, and full ties to the earlier admitted game.
func (c *Company) BestRated() (*models.Game, error) {
	if len(c.games) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", e.ErrGameNotFound)
	}

	best := c.games[0]
	for _, g := range c.games[1:] {
		if beats(g, best) {
			best = g
		}
	}
	return best, nil
}

// beats reports whether candidate should replace current as the best-rated game.
func beats(candidate, current *models.Game) bool {
	cr, br := ratingOf(candidate), ratingOf(current)
	if cr != br {
		return cr > br
	}
	cd, bd := candidate.ReleaseDate, current.ReleaseDate
	switch {
	case cd == nil:
		return false
	case bd == nil:
		return true
	default:
		return cd.After(*bd)
	}
}

func ratingOf(g *models.Game) float64 {
	if g.Rating == nil {
		return -1
	}
	return *g.Rating
}

// FindByPeriod returns, in insertion order, every game released within
// [start, end] inclusive. The result is never nil.
func (c *Company) FindByPeriod(start, end *models.Date) ([]*models.Game, error) {
	if start == nil || end == nil {
		return nil, fmt.Errorf("%w: start and end dates are required", e.ErrInvalidArgument)
	}
	if start.After(*end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s", e.ErrInvalidArgument, start, end)
	}

	result := make([]*models.Game, 0)
	for _, g := range c.games {
		d := g.ReleaseDate
		if d != nil && !d.Before(*start) && !d.After(*end) {
			result = append(result, g)
		}
	}
	return result, nil
}

func (c *Company) publish(eventType events.EventType, game *models.Game) {
	if c.producer == nil {
		return
	}
	c.producer.Produce(eventType, c.id, game)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func codeOf(game *models.Game) string {
	if game == nil {
		return ""
	}
	return game.Code
}
