package constants

// ItemStatus is the lifecycle state of a normalized inventory item.
type ItemStatus string

const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusComplete   ItemStatus = "complete"
	ItemStatusIncomplete ItemStatus = "incomplete"
	ItemStatusError      ItemStatus = "error"
)

// Strategy names the extraction path that produced a document's candidates.
type Strategy string

const (
	StrategyModel Strategy = "model"
	StrategyRules Strategy = "rules"
	StrategyNone  Strategy = "none"
)
