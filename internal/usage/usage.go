package usage

type ConsumeRequest struct {
	UserID string `json:"userId"`
}

type ConsumeResponse struct {
	CanGenerate   bool `json:"canGenerate"`
	DatasetsUsed  int  `json:"datasetsUsed"`
	DatasetsLimit int  `json:"datasetsLimit"`
	IsUnlimited   bool `json:"isUnlimited"`
}

type StatusResponse struct {
	HasSubscription bool   `json:"hasSubscription"`
	CanGenerate     bool   `json:"canGenerate"`
	DatasetsUsed    int    `json:"datasetsUsed"`
	DatasetsLimit   int    `json:"datasetsLimit"`
	IsUnlimited     bool   `json:"isUnlimited"`
	PlanName        string `json:"planName"`
}
