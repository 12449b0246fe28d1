package classifier

// Category is one weighted partition of the lexicon
type Category string

const (
	CategoryJobIndicator Category = "job_indicator"
	CategoryRole         Category = "role"
	CategoryTechnology   Category = "technology"
	CategoryLocation     Category = "location"
)

// Weights per category. Explicit hiring language carries the most signal,
// location words the least.
var categoryWeights = map[Category]float64{
	CategoryJobIndicator: 3,
	CategoryRole:         2,
	CategoryTechnology:   1.5,
	CategoryLocation:     1,
}

// Lexicon is the fixed, weighted keyword table used for scoring. Entries may
// be multi-word phrases; matching is always on whole tokens.
type Lexicon map[Category][]string

// DefaultLexicon returns the built-in job-post lexicon
func DefaultLexicon() Lexicon {
	return Lexicon{
		CategoryJobIndicator: {
			"hiring", "job", "vacancy", "position", "opening", "opportunity",
			"career", "employment", "work", "salary", "ctc", "lpa",
			"experience", "years", "apply", "resume", "cv", "interview",
			"recruitment", "hr", "human resource", "join our team",
			"we are hiring", "job alert", "job opportunity",
		},
		CategoryRole: {
			"developer", "engineer", "programmer", "coder", "architect",
			"analyst", "designer", "manager", "lead", "senior", "junior",
			"intern", "fresher", "experienced", "fullstack", "frontend",
			"backend", "devops", "qa", "tester", "product manager",
			"project manager", "scrum master", "tech lead", "team lead",
		},
		CategoryTechnology: {
			"python", "java", "javascript", "react", "angular", "vue",
			"node", "django", "flask", "spring", "html", "css", "sql",
			"mongodb", "postgresql", "mysql", "aws", "azure", "docker",
			"kubernetes", "git", "linux", "android", "ios", "flutter",
			"react native", "machine learning", "data science", "ai",
		},
		CategoryLocation: {
			"bangalore", "mumbai", "delhi", "hyderabad", "pune", "chennai",
			"kolkata", "gurgaon", "noida", "remote", "work from home",
			"wfh", "onsite", "hybrid", "office", "location",
		},
	}
}
