package entity

type Prompt struct {
	ID   string
	Text string
}

var DevOpsPrompt = Prompt{
	ID:   "devops",
	Text: "You are a DevOps expert. Generate ONLY valid YAML.",
}

// YAMLOnlyInstruction closes every user prompt.
const YAMLOnlyInstruction = "Output ONLY valid YAML, no explanations."
