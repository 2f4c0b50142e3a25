package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// CurveType 收益率曲线类型
type CurveType string

const (
	CurveTypeTreasury CurveType = "TREASURY"
	CurveTypeSwap     CurveType = "SWAP"
	CurveTypeOIS      CurveType = "OIS"
)

// InterpolationMethod 曲线插值方法
type InterpolationMethod string

const (
	InterpLinear      InterpolationMethod = "LINEAR"
	InterpCubicSpline InterpolationMethod = "CUBIC_SPLINE"
	InterpAkima       InterpolationMethod = "AKIMA"
)

// YieldCurvePoint 曲线节点 (期限, 利率, 来源工具类型)
type YieldCurvePoint struct {
	Maturity       float64 `json:"maturity"` // 年
	Rate           float64 `json:"rate"`
	InstrumentType string  `json:"instrument_type"`
}

// CurveData 收益率曲线
// 节点按期限升序排列；曲线范围外按端点利率平坦外推
type CurveData struct {
	Currency string              `json:"currency"`
	Type     CurveType           `json:"type"`
	Method   InterpolationMethod `json:"method"`
	Points   []YieldCurvePoint   `json:"points"`
}

// NewCurveData 创建收益率曲线，节点去重并按期限升序排序
func NewCurveData(currency string, curveType CurveType, method InterpolationMethod, points []YieldCurvePoint) (*CurveData, error) {
	if len(points) == 0 {
		return nil, ErrCurveEmpty
	}
	for _, p := range points {
		if err := ValidateNonNegative(p.Maturity, "maturity"); err != nil {
			return nil, err
		}
		if err := ValidateRate(p.Rate, "rate"); err != nil {
			return nil, err
		}
	}

	sorted := make([]YieldCurvePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Maturity < sorted[j].Maturity })

	// 相同期限只保留最后一个节点，保证插值横坐标严格递增
	deduped := sorted[:0]
	for _, p := range sorted {
		if len(deduped) > 0 && deduped[len(deduped)-1].Maturity == p.Maturity {
			deduped[len(deduped)-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	return &CurveData{
		Currency: currency,
		Type:     curveType,
		Method:   method,
		Points:   deduped,
	}, nil
}

// Rate 按配置的插值方法求指定期限的利率
// 低于最短期限或高于最长期限时返回端点利率（平坦外推）；
// 节点不足 4 个时三次样条/Akima 回退为线性插值
func (c *CurveData) Rate(maturity float64) (float64, error) {
	n := len(c.Points)
	if n == 0 {
		return 0, ErrCurveEmpty
	}
	if n == 1 {
		return c.Points[0].Rate, nil
	}
	if maturity <= c.Points[0].Maturity {
		return c.Points[0].Rate, nil
	}
	if maturity >= c.Points[n-1].Maturity {
		return c.Points[n-1].Rate, nil
	}

	method := c.Method
	if n < 4 {
		method = InterpLinear
	}

	switch method {
	case InterpCubicSpline:
		return c.fitPredict(&interp.NaturalCubic{}, maturity)
	case InterpAkima:
		return c.fitPredict(&interp.AkimaSpline{}, maturity)
	default:
		return c.linearRate(maturity), nil
	}
}

// DiscountFactor 连续复利贴现因子 e^(-r·t)
func (c *CurveData) DiscountFactor(maturity float64) (float64, error) {
	rate, err := c.Rate(maturity)
	if err != nil {
		return 0, err
	}
	return math.Exp(-rate * maturity), nil
}

// ForwardRate 两个期限之间的隐含远期利率（连续复利）
func (c *CurveData) ForwardRate(t1, t2 float64) (float64, error) {
	if t2 <= t1 {
		return 0, NewValidationError("maturity", "t2 must be greater than t1")
	}
	r1, err := c.Rate(t1)
	if err != nil {
		return 0, err
	}
	r2, err := c.Rate(t2)
	if err != nil {
		return 0, err
	}
	return (r2*t2 - r1*t1) / (t2 - t1), nil
}

func (c *CurveData) fitPredict(p interp.FittablePredictor, maturity float64) (float64, error) {
	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	for i, pt := range c.Points {
		xs[i] = pt.Maturity
		ys[i] = pt.Rate
	}
	if err := p.Fit(xs, ys); err != nil {
		// 样条拟合失败时回退线性，不让定价链路中断
		return c.linearRate(maturity), nil
	}
	return p.Predict(maturity), nil
}

func (c *CurveData) linearRate(maturity float64) float64 {
	idx := sort.Search(len(c.Points), func(i int) bool { return c.Points[i].Maturity >= maturity })
	lo := c.Points[idx-1]
	hi := c.Points[idx]
	w := (maturity - lo.Maturity) / (hi.Maturity - lo.Maturity)
	return lo.Rate + w*(hi.Rate-lo.Rate)
}
