package output

// DefaultAssumptions lists the modeling assumptions rendered when results carry none.
// They describe the built-in rules; the engine produces its own list from the active rules.
var DefaultAssumptions = []string{
	"Age Pension: full rate $1051.30 (single) / $1585.00 (couple) per fortnight",
	"Income test: 50c reduction per dollar above the income free area",
	"Asset test: $3 per fortnight reduction per $1000 above the lower threshold",
	"Lifetime Income: 6.7% of the purchase price paid annually for life",
	"Lifetime Income purchases are discounted by 40% in the asset test",
	"Choice Income: age-based drawdown, no investment returns, no indexation",
}
