package resources

// skillSynonyms backs the 0.9-tier match: terms that name the same skill
// without sharing a substring.
var skillSynonyms = map[string][]string{
	"javascript":       {"js", "ecmascript", "frontend scripting", "client-side scripting"},
	"python":           {"py", "python programming", "data science scripting"},
	"react":            {"reactjs", "react.js", "facebook react", "frontend framework"},
	"sql":              {"database queries", "relational databases", "structured query language"},
	"machine learning": {"ml", "artificial intelligence", "ai", "predictive modeling"},
	"data analysis":    {"data analytics", "data science", "business intelligence"},
	"cloud computing":  {"aws", "azure", "gcp", "cloud services"},
	"docker":           {"containerization", "containers", "docker containers"},
	"git":              {"version control", "source control", "github", "gitlab"},
	"system design":    {"architecture", "scalability", "distributed systems"},
	"cybersecurity":    {"security", "information security", "cyber defense"},
}
