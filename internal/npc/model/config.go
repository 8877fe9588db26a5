package model

// ================ Config ================

// ChatConfig controls the chat pipeline behaviour.
type ChatConfig struct {
	// UseModel short-circuits generation entirely when false: the endpoint
	// answers with a canned filler response and never touches the model.
	UseModel        bool   `envconfig:"USE_MODEL" default:"true"`
	MaxHistoryTurns int    `envconfig:"CHAT_MAX_HISTORY_TURNS" default:"5"`
	DefaultWallet   string `envconfig:"CHAT_DEFAULT_WALLET" default:"0x1f9090aaE28b8a3dCeaDf281B0F12828e676c326"`
}

// GenerationConfig holds sampling parameters for the persona response call.
type GenerationConfig struct {
	Temperature  float64 `envconfig:"GENERATION_TEMPERATURE" default:"0.7"`
	TopP         float64 `envconfig:"GENERATION_TOP_P" default:"0.9"`
	MaxNewTokens int     `envconfig:"GENERATION_MAX_NEW_TOKENS" default:"500"`
}

// IntentModelConfig holds sampling parameters for the tool-intent detection call.
type IntentModelConfig struct {
	Temperature  float64 `envconfig:"INTENT_TEMPERATURE" default:"0.7"`
	MaxNewTokens int     `envconfig:"INTENT_MAX_NEW_TOKENS" default:"1000"`
}

// KnowledgeConfig controls knowledge base retrieval.
type KnowledgeConfig struct {
	MaxResults     int     `envconfig:"KNOWLEDGE_MAX_RESULTS" default:"3"`
	MatchThreshold float64 `envconfig:"KNOWLEDGE_MATCH_THRESHOLD" default:"0.7"`
	EmbeddingModel string  `envconfig:"KNOWLEDGE_EMBEDDING_MODEL" default:"text-embedding-ada-002"`
}
