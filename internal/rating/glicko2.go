// internal/rating/glicko2.go
package rating

import (
	"math"
)

const (
	// GlickoScale converts between the 1500-based display scale and Glicko-2's mu.
	GlickoScale = 173.7178
	// DefaultMu is the display rating of a new player.
	DefaultMu = 1500.0
	// DefaultPhi is the display rating deviation of a new player.
	DefaultPhi = 350.0
	// DefaultSigma is the volatility of a new player.
	DefaultSigma = 0.06
	// Tau constrains volatility changes.
	Tau = 0.5
	// Epsilon is the convergence tolerance of the volatility iteration.
	Epsilon = 0.000001
)

// Glicko2Rating is a rating in Glicko-2 space.
type Glicko2Rating struct {
	Mu    float64
	Phi   float64
	Sigma float64
}

// NewGlicko2Rating converts a display rating, deviation and volatility into Glicko-2 space.
// Zero values are replaced by the new-player defaults.
func NewGlicko2Rating(elo, rd, sigma float64) Glicko2Rating {
	if elo == 0 {
		elo = DefaultMu
	}
	if rd <= 0 {
		rd = DefaultPhi
	}
	if sigma <= 0 {
		sigma = DefaultSigma
	}
	return Glicko2Rating{
		Mu:    (elo - DefaultMu) / GlickoScale,
		Phi:   rd / GlickoScale,
		Sigma: sigma,
	}
}

// ToElo returns the display rating.
func (r Glicko2Rating) ToElo() float64 {
	return r.Mu*GlickoScale + DefaultMu
}

// RD returns the display rating deviation.
func (r Glicko2Rating) RD() float64 {
	return r.Phi * GlickoScale
}

// Result is the outcome of one pairing inside a rating period: 1 win, 0.5 draw, 0 loss.
type Result struct {
	Opponent Glicko2Rating
	Score    float64
}

// Update applies one Glicko-2 rating period. With no results only the deviation grows.
func Update(r Glicko2Rating, results []Result) Glicko2Rating {
	if len(results) == 0 {
		return Glicko2Rating{Mu: r.Mu, Phi: math.Sqrt(r.Phi*r.Phi + r.Sigma*r.Sigma), Sigma: r.Sigma}
	}

	var vInv, deltaSum float64
	for _, res := range results {
		gVal := g(res.Opponent.Phi)
		EVal := E(r.Mu, res.Opponent.Mu, res.Opponent.Phi)
		vInv += gVal * gVal * EVal * (1 - EVal)
		deltaSum += gVal * (res.Score - EVal)
	}
	v := 1.0 / vInv
	delta := v * deltaSum

	newSigma := volatility(r, v, delta)
	phiStar := math.Sqrt(r.Phi*r.Phi + newSigma*newSigma)
	phiPrime := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muPrime := r.Mu + phiPrime*phiPrime*deltaSum

	return Glicko2Rating{Mu: muPrime, Phi: phiPrime, Sigma: newSigma}
}

// volatility runs the Illinois iteration for the new sigma.
func volatility(r Glicko2Rating, v, delta float64) float64 {
	a := math.Log(r.Sigma * r.Sigma)
	fx := func(x float64) float64 {
		return f(x, r.Phi, v, delta, a)
	}

	A := a
	var B float64
	if delta*delta > r.Phi*r.Phi+v {
		B = math.Log(delta*delta - r.Phi*r.Phi - v)
	} else {
		k := 1.0
		for fx(a-k*Tau) < 0 {
			k++
		}
		B = a - k*Tau
	}

	fA, fB := fx(A), fx(B)
	for i := 0; i < 100 && math.Abs(B-A) > Epsilon; i++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := fx(C)
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}
	return math.Exp(A / 2)
}

// g is 1/sqrt(1+3phi^2/pi^2).
func g(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/math.Pi/math.Pi)
}

// E is the expected score against an opponent at mu2 with deviation phi2.
func E(mu, mu2, phi2 float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g(phi2)*(mu-mu2)))
}

func f(x, phi, v, delta, a float64) float64 {
	ex := math.Exp(x)
	num := ex * (delta*delta - phi*phi - v - ex)
	den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
	return (num / den) - ((x - a) / (Tau * Tau))
}
