package ratingdomain

import (
	"fmt"
	"math"
)

// SkillParams are the tunables of the skill system.
type SkillParams struct {
	DefaultMu    float64 `json:"defaultMu" yaml:"default_mu"`
	DefaultSigma float64 `json:"defaultSigma" yaml:"default_sigma"`
	Beta         float64 `json:"beta" yaml:"beta"`
	Tau          float64 `json:"tau" yaml:"tau"`
}

// DefaultSkillParams returns the stock tunables (mu 25, sigma 25/3, beta sigma/2, tau sigma/100).
func DefaultSkillParams() SkillParams {
	return SkillParams{
		DefaultMu:    25,
		DefaultSigma: 8.333,
		Beta:         4.166,
		Tau:          0.083,
	}
}

// Validate checks the tunables.
func (p SkillParams) Validate() error {
	if p.DefaultSigma <= 0 {
		return fmt.Errorf("%w: default sigma must be positive, got %v", ErrInvalidParams, p.DefaultSigma)
	}
	if p.Beta < 0 || p.Tau < 0 {
		return fmt.Errorf("%w: beta and tau must not be negative", ErrInvalidParams)
	}
	return nil
}

// SkillSystem is a single-factor 1v1 TrueSkill-style update over (mean, uncertainty).
type SkillSystem struct {
	params SkillParams
}

var _ RatingSystem = (*SkillSystem)(nil)

// NewSkillSystem builds a skill system from validated tunables.
func NewSkillSystem(params SkillParams) (*SkillSystem, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &SkillSystem{params: params}, nil
}

func (s *SkillSystem) ID() SystemID { return SystemSkill }

// Params returns the tunables in use.
func (s *SkillSystem) Params() SkillParams { return s.params }

func (s *SkillSystem) skill(p Player) SkillRating {
	if p.SkillRating == nil {
		return SkillRating{Mean: s.params.DefaultMu, Uncertainty: s.params.DefaultSigma}
	}
	return *p.SkillRating
}

// combinedDeviation is c = sqrt(2*beta^2 + sigma_w^2 + sigma_l^2).
func (s *SkillSystem) combinedDeviation(w, l SkillRating) float64 {
	beta2 := s.params.Beta * s.params.Beta
	return math.Sqrt(2*beta2 + w.Uncertainty*w.Uncertainty + l.Uncertainty*l.Uncertainty)
}

// ComputeUpdate moves the winner's mean up and the loser's down by the
// truncated Gaussian correction, shrinks both uncertainties and then
// re-inflates them by tau for skill drift.
func (s *SkillSystem) ComputeUpdate(winner, loser Player, _ MatchContext) (RatingPatch, RatingPatch) {
	w := s.skill(winner)
	l := s.skill(loser)

	c := s.combinedDeviation(w, l)
	if c == 0 {
		// Both players fully certain with beta 0: nothing left to learn.
		return RatingPatch{SkillRating: &w}, RatingPatch{SkillRating: &l}
	}
	c2 := c * c
	t := (w.Mean - l.Mean) / c

	v := vWin(t)
	wv := wWin(t)

	newWinner := SkillRating{
		Mean:        w.Mean + (w.Uncertainty*w.Uncertainty/c)*v,
		Uncertainty: s.updateUncertainty(w.Uncertainty, c2, wv),
	}
	newLoser := SkillRating{
		Mean:        l.Mean - (l.Uncertainty*l.Uncertainty/c)*v,
		Uncertainty: s.updateUncertainty(l.Uncertainty, c2, wv),
	}

	return RatingPatch{SkillRating: &newWinner}, RatingPatch{SkillRating: &newLoser}
}

func (s *SkillSystem) updateUncertainty(sigma, c2, w float64) float64 {
	factor := math.Max(1-(sigma*sigma/c2)*w, 0)
	shrunk := sigma * math.Sqrt(factor)
	return math.Sqrt(shrunk*shrunk + s.params.Tau*s.params.Tau)
}

// MatchQuality is the draw probability of a pairing, in [0, 1]. Higher means
// a more even match. It is diagnostic only and never used for ranking.
func (s *SkillSystem) MatchQuality(a, b Player) float64 {
	ra := s.skill(a)
	rb := s.skill(b)

	c := s.combinedDeviation(ra, rb)
	c2 := c * c
	if c2 == 0 {
		return 1
	}
	diff := ra.Mean - rb.Mean
	return math.Sqrt(2*s.params.Beta*s.params.Beta/c2) * math.Exp(-diff*diff/(2*c2))
}

func (s *SkillSystem) DefaultRating() RatingPatch {
	return RatingPatch{SkillRating: &SkillRating{Mean: s.params.DefaultMu, Uncertainty: s.params.DefaultSigma}}
}

// RatingValue is the conservative estimate, so uncertain newcomers sit below
// settled players with a slightly lower mean.
func (s *SkillSystem) RatingValue(p Player) float64 {
	return s.skill(p).ConservativeEstimate()
}

func (s *SkillSystem) SortByRating(players []Player) []Player {
	return sortStableDesc(players, s.RatingValue)
}

func (s *SkillSystem) DisplayRating(p Player) string {
	sk := s.skill(p)
	return fmt.Sprintf("%.1f±%.1f", sk.Mean, sk.Uncertainty)
}
