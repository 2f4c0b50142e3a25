package domain

import (
	"fmt"
	"sort"
)

// ScannerConfig 扫描器参数
type ScannerConfig struct {
	Tolerance       float64 // 数值容差，默认 1e-10
	VolThreshold    float64 // 波动率套利触发阈值
	ConfidenceSlope float64
	ConfidenceCap   float64
}

// DefaultScannerConfig 默认扫描参数
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		Tolerance:       1e-10,
		VolThreshold:    0.05,
		ConfidenceSlope: 5.0,
		ConfidenceCap:   0.95,
	}
}

// ScanInput 一次综合扫描的全部观察输入
// 各切片按调用方给定顺序处理，保证相同输入产出相同顺序的机会列表
type ScanInput struct {
	ParityPairs     []ParityInput
	BoxSpreads      []BoxSpreadInput
	CarryPositions  []CarryInput
	CalendarSpreads []CalendarInput
	VolPositions    []VolArbInput
}

// Scanner 聚合各策略检测器的综合扫描器
type Scanner struct {
	cfg ScannerConfig
}

// NewScanner 创建扫描器
func NewScanner(cfg ScannerConfig) *Scanner {
	def := DefaultScannerConfig()
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.VolThreshold <= 0 {
		cfg.VolThreshold = def.VolThreshold
	}
	if cfg.ConfidenceSlope <= 0 {
		cfg.ConfidenceSlope = def.ConfidenceSlope
	}
	if cfg.ConfidenceCap <= 0 {
		cfg.ConfidenceCap = def.ConfidenceCap
	}
	return &Scanner{cfg: cfg}
}

// ComprehensiveScan 运行全部检测器并按固定顺序汇总机会
// 单个检测输入非法时跳过该条目，不中断整个扫描
func (s *Scanner) ComprehensiveScan(in ScanInput) ([]*ArbitrageOpportunity, []error) {
	var opportunities []*ArbitrageOpportunity
	var errs []error

	collect := func(opp *ArbitrageOpportunity, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		if opp != nil {
			opportunities = append(opportunities, opp)
		}
	}

	for _, p := range in.ParityPairs {
		if p.Tolerance <= 0 {
			p.Tolerance = s.cfg.Tolerance
		}
		collect(DetectConversionReversal(p))
	}
	for _, b := range in.BoxSpreads {
		if b.Tolerance <= 0 {
			b.Tolerance = s.cfg.Tolerance
		}
		collect(DetectBoxSpread(b))
	}
	for _, c := range in.CarryPositions {
		if c.Tolerance <= 0 {
			c.Tolerance = s.cfg.Tolerance
		}
		collect(DetectCarryArbitrage(c))
	}
	for _, c := range in.CalendarSpreads {
		if c.Tolerance <= 0 {
			c.Tolerance = s.cfg.Tolerance
		}
		collect(DetectCalendarSpread(c))
	}
	for _, v := range in.VolPositions {
		if v.SpreadThreshold <= 0 {
			v.SpreadThreshold = s.cfg.VolThreshold
		}
		if v.ConfidenceSlope <= 0 {
			v.ConfidenceSlope = s.cfg.ConfidenceSlope
		}
		if v.ConfidenceCap <= 0 {
			v.ConfidenceCap = s.cfg.ConfidenceCap
		}
		collect(DetectVolatilityArbitrage(v))
	}

	return opportunities, errs
}

// RankOpportunities 按综合评分降序排序（稳定排序，评分相同保持原顺序）
// 返回新切片，不修改入参
func RankOpportunities(opps []*ArbitrageOpportunity) []*ArbitrageOpportunity {
	ranked := make([]*ArbitrageOpportunity, len(opps))
	copy(ranked, opps)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})
	return ranked
}

// FilterCriteria 机会过滤条件；零值字段表示不过滤
type FilterCriteria struct {
	MinProfit     float64
	MinConfidence float64
	MaxComplexity Complexity
	AllowedTypes  []ArbitrageType
}

func complexityRank(c Complexity) int {
	switch c {
	case ComplexityLow:
		return 0
	case ComplexityMedium:
		return 1
	default:
		return 2
	}
}

// FilterOpportunities 按最小利润/最小置信度/最大复杂度/类型白名单过滤
func FilterOpportunities(opps []*ArbitrageOpportunity, criteria FilterCriteria) []*ArbitrageOpportunity {
	allowed := make(map[ArbitrageType]bool, len(criteria.AllowedTypes))
	for _, t := range criteria.AllowedTypes {
		allowed[t] = true
	}

	filtered := make([]*ArbitrageOpportunity, 0, len(opps))
	for _, opp := range opps {
		if opp.ProfitPotential.InexactFloat64() < criteria.MinProfit {
			continue
		}
		if opp.Confidence < criteria.MinConfidence {
			continue
		}
		if criteria.MaxComplexity != "" && complexityRank(opp.Complexity) > complexityRank(criteria.MaxComplexity) {
			continue
		}
		if len(allowed) > 0 && !allowed[opp.Type] {
			continue
		}
		filtered = append(filtered, opp)
	}
	return filtered
}

// ExecutionPlan 按机会类型生成逐步执行计划
func ExecutionPlan(opp *ArbitrageOpportunity) ([]string, error) {
	switch opp.Type {
	case TypeConversion:
		return []string{
			"sell the overpriced call",
			"buy the matching put at the same strike and expiry",
			"buy the underlying",
			"hold to expiry; exercise or assign to lock the parity gap",
		}, nil
	case TypeReversal:
		return []string{
			"sell the overpriced put",
			"buy the matching call at the same strike and expiry",
			"short the underlying",
			"hold to expiry; exercise or assign to lock the parity gap",
		}, nil
	case TypeBoxSpread:
		if opp.Direction == DirectionBuyCheap {
			return []string{
				"buy the low-strike call, sell the high-strike call",
				"buy the high-strike put, sell the low-strike put",
				"hold to expiry for the guaranteed K2-K1 payoff",
			}, nil
		}
		return []string{
			"sell the low-strike call, buy the high-strike call",
			"sell the high-strike put, buy the low-strike put",
			"invest the premium received at the risk-free rate until expiry",
		}, nil
	case TypeCarry:
		if opp.Direction == DirectionSellExpensive {
			return []string{
				"sell the rich forward/future",
				"buy the underlying spot, financing at the risk-free rate",
				"carry the position to delivery (cash-and-carry)",
			}, nil
		}
		return []string{
			"buy the cheap forward/future",
			"short the underlying spot, investing proceeds at the risk-free rate",
			"carry the position to delivery (reverse cash-and-carry)",
		}, nil
	case TypeCalendar:
		if opp.Direction == DirectionSellExpensive {
			return []string{
				"sell the far-dated option",
				"buy the near-dated option at the same strike",
				"unwind when the time-value spread converges",
			}, nil
		}
		return []string{
			"buy the far-dated option",
			"sell the near-dated option at the same strike",
			"unwind when the time-value spread converges",
		}, nil
	case TypeVolatility:
		side := "sell"
		if opp.Direction == DirectionBuyCheap {
			side = "buy"
		}
		return []string{
			fmt.Sprintf("%s the option at the observed implied volatility", side),
			"delta-hedge with the underlying, rebalancing as spot moves",
			"carry until implied and realized volatility converge",
		}, nil
	default:
		return nil, ErrUnsupportedStrategy
	}
}
