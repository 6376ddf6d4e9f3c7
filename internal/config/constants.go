package config

// SubjectIDs are the database identifiers of the exam subjects.
type SubjectIDs struct {
	Biology int64
}

// SubscriptionLimits bound what a free account may do.
type SubscriptionLimits struct {
	FreePlanDailyTests  int
	FreemiumTopicsLimit int
}

// PlanCodes are the stored codes of subscription plans.
type PlanCodes struct {
	Free    string
	Premium string
}

// Constants groups the process-wide read-only values.
type Constants struct {
	SubjectIDs         SubjectIDs
	SubscriptionLimits SubscriptionLimits
	PlanCodes          PlanCodes
}

var constants = Constants{
	SubjectIDs: SubjectIDs{
		Biology: 3,
	},
	SubscriptionLimits: SubscriptionLimits{
		FreePlanDailyTests:  5,
		FreemiumTopicsLimit: 2,
	},
	PlanCodes: PlanCodes{
		Free:    "free",
		Premium: "premium",
	},
}

// App returns a copy of the process constants. Callers cannot mutate the
// shared value.
func App() Constants {
	return constants
}
