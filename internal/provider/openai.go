package provider

// OpenAI translates through the OpenAI chat completions API.
type OpenAI struct {
	*chatClient
}

// NewOpenAI creates an OpenAI provider. Model defaults to gpt-4o.
func NewOpenAI(cfg Config) *OpenAI {
	return &OpenAI{newChatClient("openai", "https://api.openai.com/v1", "gpt-4o", cfg)}
}
