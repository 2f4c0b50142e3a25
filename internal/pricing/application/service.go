// Package application 编排定价用例：按工具变体分发定价模型、计算希腊字母、反推隐含波动率
package application

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/quantengine/internal/pricing/domain"
	"github.com/wyfcoding/quantengine/pkg/numerics"
)

// ResultRepository 定价结果持久化端口
type ResultRepository interface {
	Save(ctx context.Context, result *domain.PricingResult) error
}

// PricingService 定价应用服务
// 无共享可变状态，可被多 goroutine 并发调用
type PricingService struct {
	provider      domain.MarketDataProvider
	repo          ResultRepository
	binomialSteps int
}

// NewPricingService 创建定价服务
// repo 可为 nil（不持久化定价结果）
func NewPricingService(provider domain.MarketDataProvider, repo ResultRepository, binomialSteps int) *PricingService {
	if binomialSteps <= 0 {
		binomialSteps = 500
	}
	return &PricingService{provider: provider, repo: repo, binomialSteps: binomialSteps}
}

// Price 对任意受支持的工具变体定价
func (s *PricingService) Price(ctx context.Context, inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	var (
		result *domain.PricingResult
		err    error
	)

	switch inst.Kind {
	case domain.KindVanillaOption:
		result, err = s.priceOption(inst, md)
	case domain.KindEquityForward:
		result, err = s.priceForward(inst, md)
	case domain.KindFixedIncomeForward:
		result, err = s.priceFixedIncomeForward(inst, md)
	case domain.KindFRA:
		result, err = s.priceFRA(ctx, inst, md)
	case domain.KindInterestRateSwap:
		result, err = s.priceInterestRateSwap(ctx, inst, md)
	case domain.KindCurrencySwap:
		result, err = s.priceCurrencySwap(ctx, inst, md)
	case domain.KindEquitySwap:
		result, err = s.priceEquitySwap(inst, md)
	default:
		return nil, domain.ErrUnsupportedInstrument
	}
	if err != nil {
		logging.Error(ctx, "pricing failed", "symbol", inst.Symbol, "kind", inst.Kind, "error", err)
		return nil, err
	}

	if s.repo != nil {
		if saveErr := s.repo.Save(ctx, result); saveErr != nil {
			// 持久化失败不影响定价结果返回
			logging.Error(ctx, "failed to persist pricing result", "symbol", inst.Symbol, "error", saveErr)
		}
	}
	return result, nil
}

// CalculateGreeks 计算期权希腊字母；非期权工具返回定价错误
func (s *PricingService) CalculateGreeks(ctx context.Context, inst *domain.Instrument, md domain.MarketData) (*domain.Greeks, error) {
	if !inst.IsOption() || inst.Option == nil {
		return nil, domain.NewPricingError(string(domain.PricingModelBlackScholes), "greeks are only defined for options", domain.ErrUnsupportedInstrument)
	}

	in := s.bsmInput(inst, md)
	return domain.CalculateGreeks(inst.Option.Type, in), nil
}

// ImpliedVolatility 由市场价格反推隐含波动率；无法夹逼求根时返回 NaN
func (s *PricingService) ImpliedVolatility(ctx context.Context, inst *domain.Instrument, md domain.MarketData, marketPrice float64) (float64, error) {
	if !inst.IsOption() || inst.Option == nil {
		return math.NaN(), domain.NewPricingError(string(domain.PricingModelBlackScholes), "implied volatility is only defined for options", domain.ErrUnsupportedInstrument)
	}

	iv := domain.ImpliedVolatility(inst.Option.Type, marketPrice, s.bsmInput(inst, md))
	if math.IsNaN(iv) {
		logging.Debug(ctx, "implied volatility not bracketed", "symbol", inst.Symbol, "market_price", marketPrice)
	}
	return iv, nil
}

func (s *PricingService) bsmInput(inst *domain.Instrument, md domain.MarketData) domain.BSMInput {
	return domain.BSMInput{
		S: md.SpotPrice,
		K: inst.Option.Strike,
		T: md.ResolveTimeToExpiry(inst),
		R: md.RiskFreeRate,
		Q: md.DividendYield,
		V: md.Volatility,
	}
}

func (s *PricingService) priceOption(inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	in := s.bsmInput(inst, md)
	intrinsic := inst.Payoff(md.SpotPrice)
	greeks := domain.CalculateGreeks(inst.Option.Type, in)

	switch inst.Option.Style {
	case domain.ExerciseStyleEuropean:
		fv := domain.BlackScholesPrice(inst.Option.Type, in)
		result := domain.NewOptionPricingResult(inst.Symbol, fv, intrinsic, greeks, domain.PricingModelBlackScholes)
		return result.WithDetails(map[string]float64{
			"spot": in.S, "strike": in.K, "time_to_expiry": in.T,
			"risk_free_rate": in.R, "dividend_yield": in.Q, "volatility": in.V,
		}), nil

	case domain.ExerciseStyleAmerican, domain.ExerciseStyleBermudan:
		binIn := domain.BinomialInput{
			S: in.S, K: in.K, T: in.T, R: in.R, Q: in.Q, V: in.V,
			Steps: s.binomialSteps,
		}
		if inst.Option.Style == domain.ExerciseStyleBermudan {
			asOf := md.AsOf
			if asOf.IsZero() {
				asOf = time.Now()
			}
			for _, d := range inst.Option.ExerciseDates {
				if t := numerics.YearsBetween(asOf, d); t > 0 {
					binIn.ExerciseTimes = append(binIn.ExerciseTimes, t)
				}
			}
		}
		fv, err := domain.BinomialTreePrice(inst.Option.Type, inst.Option.Style, binIn)
		if err != nil {
			return nil, err
		}
		return domain.NewOptionPricingResult(inst.Symbol, fv, intrinsic, greeks, domain.PricingModelBinomial), nil

	default:
		return nil, domain.NewPricingError(string(domain.PricingModelBlackScholes), "unknown exercise style", domain.ErrUnsupportedExerciseStyle)
	}
}

// PriceOnForward 用 Black 模型为远期/期货上的欧式期权定价
func (s *PricingService) PriceOnForward(ctx context.Context, inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	if !inst.IsOption() || inst.Option == nil {
		return nil, domain.ErrUnsupportedInstrument
	}
	if inst.Option.Style != domain.ExerciseStyleEuropean {
		return nil, domain.NewPricingError(string(domain.PricingModelBlack76), "black model supports european exercise only", domain.ErrUnsupportedExerciseStyle)
	}

	forward := md.ForwardPrice
	if forward <= 0 {
		forward = domain.TheoreticalForwardPrice(domain.CarryForwardInput{
			S: md.SpotPrice, T: md.ResolveTimeToExpiry(inst), R: md.RiskFreeRate, Q: md.DividendYield,
		})
	}
	fv := domain.Black76Price(inst.Option.Type, domain.Black76Input{
		F: forward, K: inst.Option.Strike, T: md.ResolveTimeToExpiry(inst), R: md.RiskFreeRate, V: md.Volatility,
	})
	return domain.NewOptionPricingResult(inst.Symbol, fv, inst.Payoff(forward), nil, domain.PricingModelBlack76), nil
}

func (s *PricingService) priceForward(inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	if inst.Forward == nil {
		return nil, domain.ErrMissingForwardTerms
	}

	in := domain.CarryForwardInput{
		S:                md.SpotPrice,
		T:                md.ResolveTimeToExpiry(inst),
		R:                md.RiskFreeRate,
		Q:                md.DividendYield,
		StorageCost:      inst.Forward.StorageCost,
		ConvenienceYield: inst.Forward.ConvenienceYield,
	}
	unitValue := domain.ForwardContractValue(inst.Forward.ContractPrice, in)
	fv := unitValue * inst.Notional.InexactFloat64()

	result := domain.NewPricingResult(inst.Symbol, fv, domain.PricingModelCarry)
	return result.WithDetails(map[string]float64{
		"theoretical_forward": domain.TheoreticalForwardPrice(in),
		"contract_price":      inst.Forward.ContractPrice,
	}), nil
}

func (s *PricingService) priceFixedIncomeForward(inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	if inst.Forward == nil {
		return nil, domain.ErrMissingForwardTerms
	}

	unitValue := domain.FixedIncomeForwardValue(
		inst.Forward.ContractPrice, md.SpotPrice, inst.Forward.CouponRate,
		md.RiskFreeRate, md.ResolveTimeToExpiry(inst),
	)
	return domain.NewPricingResult(inst.Symbol, unitValue*inst.Notional.InexactFloat64(), domain.PricingModelCarry), nil
}

func (s *PricingService) curveFor(ctx context.Context, currency string) (*domain.CurveData, error) {
	if s.provider == nil {
		return nil, domain.ErrCurveNotFound
	}
	return s.provider.GetYieldCurve(ctx, currency, domain.CurveTypeSwap)
}

func (s *PricingService) priceFRA(ctx context.Context, inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	if inst.Forward == nil {
		return nil, domain.ErrMissingForwardTerms
	}
	curve, err := s.curveFor(ctx, inst.Currency)
	if err != nil {
		return nil, err
	}

	unitValue, err := domain.FRAValue(inst.Forward.ContractRate, inst.Forward.StartMaturity, inst.Forward.EndMaturity, curve)
	if err != nil {
		return nil, err
	}
	return domain.NewPricingResult(inst.Symbol, unitValue*inst.Notional.InexactFloat64(), domain.PricingModelCurve), nil
}

func (s *PricingService) priceInterestRateSwap(ctx context.Context, inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	if inst.Swap == nil {
		return nil, domain.ErrMissingSwapTerms
	}
	curve, err := s.curveFor(ctx, inst.Currency)
	if err != nil {
		return nil, err
	}

	maturity := md.ResolveTimeToExpiry(inst)
	unitValue, legs, err := domain.InterestRateSwapValue(inst.Swap.FixedRate, maturity, inst.Swap.PaymentFreq, inst.Swap.PayFixed, curve)
	if err != nil {
		return nil, err
	}
	parRate, err := domain.SwapParRate(maturity, inst.Swap.PaymentFreq, curve)
	if err != nil {
		parRate = math.NaN()
	}

	result := domain.NewPricingResult(inst.Symbol, unitValue*inst.Notional.InexactFloat64(), domain.PricingModelCurve)
	return result.WithDetails(map[string]float64{
		"fixed_leg_pv":    legs.FixedPV,
		"floating_leg_pv": legs.FloatingPV,
		"par_rate":        parRate,
	}), nil
}

func (s *PricingService) priceCurrencySwap(ctx context.Context, inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	if inst.Swap == nil {
		return nil, domain.ErrMissingSwapTerms
	}
	domesticCurve, err := s.curveFor(ctx, inst.Currency)
	if err != nil {
		return nil, err
	}
	foreignCurve, err := s.curveFor(ctx, inst.Swap.ForeignCurrency)
	if err != nil {
		return nil, err
	}

	value, err := domain.CurrencySwapValue(
		inst.Notional.InexactFloat64(), inst.Swap.FixedRate,
		inst.Swap.ForeignNotional, inst.Swap.ForeignRate,
		inst.Swap.FXSpot,
		md.ResolveTimeToExpiry(inst), inst.Swap.PaymentFreq, inst.Swap.PayFixed,
		domesticCurve, foreignCurve,
	)
	if err != nil {
		return nil, err
	}
	return domain.NewPricingResult(inst.Symbol, value, domain.PricingModelCurve), nil
}

func (s *PricingService) priceEquitySwap(inst *domain.Instrument, md domain.MarketData) (*domain.PricingResult, error) {
	if inst.Swap == nil {
		return nil, domain.ErrMissingSwapTerms
	}

	unitValue := domain.EquitySwapValue(
		inst.Swap.FixedRate, inst.Swap.ExpectedReturn, md.DividendYield,
		inst.Swap.TotalReturn, md.RiskFreeRate, md.ResolveTimeToExpiry(inst),
	)
	return domain.NewPricingResult(inst.Symbol, unitValue*inst.Notional.InexactFloat64(), domain.PricingModelCurve), nil
}

// IsValidationError 判断错误是否为构造期校验错误
func IsValidationError(err error) bool {
	var ve *domain.ValidationError
	return errors.As(err, &ve)
}
