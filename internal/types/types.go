package types

// Stock is one entry of the service's tradable-symbol list.
type Stock struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Industry string `json:"industry"`
	Sector   string `json:"sector"`
	IsActive bool   `json:"is_active"`
}

type StockPrice struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type PriceHistory struct {
	Symbol string       `json:"symbol"`
	Count  int          `json:"count"`
	Prices []StockPrice `json:"prices"`
}

const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Trade is one executed order from the simulation's sparse trade log.
type Trade struct {
	Date   string  `json:"date"`
	Action string  `json:"action"`
	Price  float64 `json:"price"`
	Shares float64 `json:"shares"`
	Amount float64 `json:"amount"`
	Signal string  `json:"signal"`
}

type OHLC struct {
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []float64 `json:"volume"`
}

// RawBacktestResult is the simulation output exactly as the service returns
// it: scalar metrics plus parallel per-trading-day series. The series are
// index-aligned by contract; series.Normalize enforces that before anything
// downstream reads them.
type RawBacktestResult struct {
	InitialCapital  float64   `json:"initial_capital"`
	FinalValue      float64   `json:"final_value"`
	TotalReturn     float64   `json:"total_return"`
	BuyHoldReturn   float64   `json:"buy_hold_return"`
	SharpeRatio     float64   `json:"sharpe_ratio"`
	MaxDrawdown     float64   `json:"max_drawdown"`
	TotalTrades     int       `json:"total_trades"`
	WinningTrades   int       `json:"winning_trades"`
	LosingTrades    int       `json:"losing_trades"`
	WinRate         float64   `json:"win_rate"`
	Trades          []Trade   `json:"trades"`
	PortfolioValues []float64 `json:"portfolio_values"`
	Dates           []string  `json:"dates"`
	Prices          []float64 `json:"prices"`
	OHLC            OHLC      `json:"ohlc"`
}

type BacktestResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Results RawBacktestResult `json:"results"`
}

// BacktestRequest is the run payload. Variant parameters are pointers so
// that only the fields belonging to the submitted strategy type are
// serialized; strategy.ToBacktestRequest is the only place that populates
// them.
type BacktestRequest struct {
	Symbol         string  `json:"symbol"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	InitialCapital float64 `json:"initial_capital"`
	StrategyType   string  `json:"strategy_type"`

	ShortPeriod *int `json:"short_period,omitempty"`
	LongPeriod  *int `json:"long_period,omitempty"`

	RSIPeriod     *int     `json:"rsi_period,omitempty"`
	RSIOverbought *float64 `json:"rsi_overbought,omitempty"`
	RSIOversold   *float64 `json:"rsi_oversold,omitempty"`

	MACDFast   *int `json:"macd_fast,omitempty"`
	MACDSlow   *int `json:"macd_slow,omitempty"`
	MACDSignal *int `json:"macd_signal,omitempty"`

	BBPeriod *int     `json:"bb_period,omitempty"`
	BBStdDev *float64 `json:"bb_std_dev,omitempty"`

	GridLowerPrice        *float64 `json:"grid_lower_price,omitempty"`
	GridUpperPrice        *float64 `json:"grid_upper_price,omitempty"`
	GridNumGrids          *int     `json:"grid_num_grids,omitempty"`
	GridInvestmentPerGrid *float64 `json:"grid_investment_per_grid,omitempty"`

	StopLossPct     *float64 `json:"stop_loss_pct,omitempty"`
	TakeProfitPct   *float64 `json:"take_profit_pct,omitempty"`
	PositionSizePct *float64 `json:"position_size_pct,omitempty"`
}

// Strategy is the persisted record the service returns after a save. The
// canonical copy lives on the service; the client only holds a read-only
// cache of it.
type Strategy struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	StrategyType   string  `json:"strategy_type"`
	InitialCapital float64 `json:"initial_capital"`

	ShortPeriod *int `json:"short_period,omitempty"`
	LongPeriod  *int `json:"long_period,omitempty"`

	RSIPeriod     *int     `json:"rsi_period,omitempty"`
	RSIOverbought *float64 `json:"rsi_overbought,omitempty"`
	RSIOversold   *float64 `json:"rsi_oversold,omitempty"`

	MACDFast   *int `json:"macd_fast,omitempty"`
	MACDSlow   *int `json:"macd_slow,omitempty"`
	MACDSignal *int `json:"macd_signal,omitempty"`

	BBPeriod *int     `json:"bb_period,omitempty"`
	BBStdDev *float64 `json:"bb_std_dev,omitempty"`

	GridLowerPrice        *float64 `json:"grid_lower_price,omitempty"`
	GridUpperPrice        *float64 `json:"grid_upper_price,omitempty"`
	GridNumGrids          *int     `json:"grid_num_grids,omitempty"`
	GridInvestmentPerGrid *float64 `json:"grid_investment_per_grid,omitempty"`

	StopLossPct     *float64 `json:"stop_loss_pct,omitempty"`
	TakeProfitPct   *float64 `json:"take_profit_pct,omitempty"`
	PositionSizePct *float64 `json:"position_size_pct,omitempty"`

	CreatedAt string `json:"created_at"`
}

// StrategyCreate is the create/update payload for a strategy. Like
// BacktestRequest, variant parameters are pointers so only the active
// type's fields are serialized.
type StrategyCreate struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	StrategyType   string  `json:"strategy_type"`
	InitialCapital float64 `json:"initial_capital"`

	ShortPeriod *int `json:"short_period,omitempty"`
	LongPeriod  *int `json:"long_period,omitempty"`

	RSIPeriod     *int     `json:"rsi_period,omitempty"`
	RSIOverbought *float64 `json:"rsi_overbought,omitempty"`
	RSIOversold   *float64 `json:"rsi_oversold,omitempty"`

	MACDFast   *int `json:"macd_fast,omitempty"`
	MACDSlow   *int `json:"macd_slow,omitempty"`
	MACDSignal *int `json:"macd_signal,omitempty"`

	BBPeriod *int     `json:"bb_period,omitempty"`
	BBStdDev *float64 `json:"bb_std_dev,omitempty"`

	GridLowerPrice        *float64 `json:"grid_lower_price,omitempty"`
	GridUpperPrice        *float64 `json:"grid_upper_price,omitempty"`
	GridNumGrids          *int     `json:"grid_num_grids,omitempty"`
	GridInvestmentPerGrid *float64 `json:"grid_investment_per_grid,omitempty"`

	StopLossPct     *float64 `json:"stop_loss_pct,omitempty"`
	TakeProfitPct   *float64 `json:"take_profit_pct,omitempty"`
	PositionSizePct *float64 `json:"position_size_pct,omitempty"`
}

type User struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FullName  *string `json:"full_name"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type APIMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
