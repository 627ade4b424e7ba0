package provider

// DeepSeek translates through the DeepSeek API, which is wire compatible with
// OpenAI chat completions. Reasoner output arrives with thinking blocks that
// the postprocess step strips.
type DeepSeek struct {
	*chatClient
}

// NewDeepSeek creates a DeepSeek provider. Model defaults to deepseek-reasoner.
func NewDeepSeek(cfg Config) *DeepSeek {
	return &DeepSeek{newChatClient("deepseek", "https://api.deepseek.com/v1", "deepseek-reasoner", cfg)}
}
