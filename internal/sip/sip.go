// Package sip projects Systematic Investment Plans: a fixed monthly
// investment compounded at a monthly rate.
//
// The formulas use the annuity-due convention: each installment is
// invested at the start of its month, so the whole series earns one
// extra month of growth (the trailing 1+r factor).
package sip

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bling/internal/core"
)

var (
	ErrInvalidRate       = fmt.Errorf("%w: annual rate must not be negative", core.ErrValidation)
	ErrInvalidPeriod     = fmt.Errorf("%w: months must be positive", core.ErrValidation)
	ErrInvalidInvestment = fmt.Errorf("%w: monthly investment must not be negative", core.ErrValidation)
	ErrInvalidTarget     = fmt.Errorf("%w: target value must not be negative", core.ErrValidation)
)

// Projection is the result of a forward computation along with the
// inputs that produced it.
type Projection struct {
	MonthlyInvestment core.Money
	AnnualRatePercent float64
	Months            int
	FutureValue       core.Money
}

// Requirement is the result of an inverse computation: the monthly
// installment needed to reach a target corpus.
type Requirement struct {
	TargetValue       core.Money
	AnnualRatePercent float64
	Months            int
	MonthlyInvestment core.Money
}

// FutureValue computes the corpus after investing monthly for the
// given number of months at annualRatePercent (e.g. 12 for 12%/year).
// A zero rate degrades to exactly monthly * months.
func FutureValue(monthly core.Money, annualRatePercent float64, months int) (Projection, error) {
	p := Projection{MonthlyInvestment: monthly, AnnualRatePercent: annualRatePercent, Months: months}
	if monthly.Cents < 0 {
		return p, ErrInvalidInvestment
	}
	if err := validateTerms(annualRatePercent, months); err != nil {
		return p, err
	}

	if annualRatePercent == 0 {
		p.FutureValue = core.Money{Cents: monthly.Cents * int64(months)}
		return p, nil
	}

	amount := decimal.New(monthly.Cents, -2)
	fv := amount.Mul(growthFactor(annualRatePercent, months))
	p.FutureValue = toMoney(fv)
	return p, nil
}

// RequiredInvestment computes the monthly installment needed to reach
// target after the given number of months. A zero rate degrades to
// target / months.
func RequiredInvestment(target core.Money, annualRatePercent float64, months int) (Requirement, error) {
	r := Requirement{TargetValue: target, AnnualRatePercent: annualRatePercent, Months: months}
	if target.Cents < 0 {
		return r, ErrInvalidTarget
	}
	if err := validateTerms(annualRatePercent, months); err != nil {
		return r, err
	}

	goal := decimal.New(target.Cents, -2)
	if annualRatePercent == 0 {
		r.MonthlyInvestment = toMoney(goal.Div(decimal.NewFromInt(int64(months))))
		return r, nil
	}

	r.MonthlyInvestment = toMoney(goal.Div(growthFactor(annualRatePercent, months)))
	return r, nil
}

func validateTerms(annualRatePercent float64, months int) error {
	if annualRatePercent < 0 {
		return ErrInvalidRate
	}
	if months <= 0 {
		return ErrInvalidPeriod
	}
	return nil
}

// growthFactor is (((1+r)^n - 1) / r) * (1+r) for a non-zero monthly
// rate r = annualRatePercent / 12 / 100.
func growthFactor(annualRatePercent float64, months int) decimal.Decimal {
	one := decimal.NewFromInt(1)
	r := decimal.NewFromFloat(annualRatePercent).Div(decimal.NewFromInt(1200))
	compound := one.Add(r).Pow(decimal.NewFromInt(int64(months)))
	return compound.Sub(one).Div(r).Mul(one.Add(r))
}

// toMoney rounds to currency precision at the output boundary only.
func toMoney(d decimal.Decimal) core.Money {
	return core.Money{Cents: d.Round(2).Shift(2).IntPart()}
}
