package providers

import (
	_ "github.com/stake-plus/truthlens/src/ai/gemini"
	_ "github.com/stake-plus/truthlens/src/ai/gemini25"
	_ "github.com/stake-plus/truthlens/src/ai/mock"
	_ "github.com/stake-plus/truthlens/src/ai/openai"
)
