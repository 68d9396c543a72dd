// Package resources ranks a fixed catalog of free learning material against
// computed skill gaps. The catalog is bundled reference data, not fetched.
package resources

type Resource struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Platform    string   `json:"platform"`
	Type        string   `json:"type"`
	Duration    string   `json:"duration"`
	Rating      float64  `json:"rating"`
	Students    string   `json:"students"`
	URL         string   `json:"url"`
	Skills      []string `json:"skills"`
	Difficulty  string   `json:"difficulty"`
	Description string   `json:"description"`
}

// Catalog returns the bundled learning resources. Callers must treat the
// result as read-only.
func Catalog() []Resource {
	return catalog
}

var catalog = []Resource{
	{
		ID:          1,
		Title:       "JavaScript Fundamentals",
		Platform:    "freeCodeCamp",
		Type:        "Interactive Course",
		Duration:    "10 hours",
		Rating:      4.8,
		Students:    "2.1M",
		URL:         "https://www.freecodecamp.org/learn/javascript-algorithms-and-data-structures/",
		Skills:      []string{"javascript", "programming", "algorithms"},
		Difficulty:  "Beginner",
		Description: "Complete interactive JavaScript course with hands-on projects",
	},
	{
		ID:          2,
		Title:       "Python for Data Science",
		Platform:    "Coursera",
		Type:        "Course",
		Duration:    "8 hours",
		Rating:      4.7,
		Students:    "500K",
		URL:         "https://www.coursera.org/learn/python-data-analysis",
		Skills:      []string{"python", "data analysis", "pandas"},
		Difficulty:  "Intermediate",
		Description: "Learn Python data analysis with pandas and numpy",
	},
	{
		ID:          3,
		Title:       "React.js Documentation",
		Platform:    "React",
		Type:        "Documentation",
		Duration:    "Self-paced",
		Rating:      4.9,
		Students:    "N/A",
		URL:         "https://reactjs.org/docs/getting-started.html",
		Skills:      []string{"react", "frontend", "javascript"},
		Difficulty:  "All Levels",
		Description: "Official React documentation with tutorials and guides",
	},
	{
		ID:          4,
		Title:       "SQLZoo",
		Platform:    "SQLZoo",
		Type:        "Interactive Exercises",
		Duration:    "6 hours",
		Rating:      4.6,
		Students:    "1M",
		URL:         "https://sqlzoo.net/",
		Skills:      []string{"sql", "database", "queries"},
		Difficulty:  "Beginner to Intermediate",
		Description: "Interactive SQL exercises from basic to advanced queries",
	},
	{
		ID:          5,
		Title:       "CS50's Introduction to Computer Science",
		Platform:    "Harvard University",
		Type:        "Video Lectures",
		Duration:    "12 weeks",
		Rating:      4.9,
		Students:    "2M",
		URL:         "https://cs50.harvard.edu/college/2022/spring/",
		Skills:      []string{"computer science", "programming", "algorithms"},
		Difficulty:  "Beginner",
		Description: "Harvard's introductory computer science course",
	},
	{
		ID:          6,
		Title:       "The Odin Project",
		Platform:    "The Odin Project",
		Type:        "Full Curriculum",
		Duration:    "Self-paced",
		Rating:      4.7,
		Students:    "500K",
		URL:         "https://www.theodinproject.com/",
		Skills:      []string{"web development", "html", "css", "javascript"},
		Difficulty:  "Beginner to Advanced",
		Description: "Open-source full-stack web development curriculum",
	},
	{
		ID:          7,
		Title:       "Machine Learning by Andrew Ng",
		Platform:    "Coursera",
		Type:        "Course",
		Duration:    "11 weeks",
		Rating:      4.9,
		Students:    "3.2M",
		URL:         "https://www.coursera.org/learn/machine-learning",
		Skills:      []string{"machine learning", "ai", "python", "mathematics"},
		Difficulty:  "Intermediate",
		Description: "Stanford's machine learning course by Andrew Ng",
	},
	{
		ID:          8,
		Title:       "AWS Cloud Practitioner Essentials",
		Platform:    "AWS",
		Type:        "Course",
		Duration:    "6 hours",
		Rating:      4.6,
		Students:    "800K",
		URL:         "https://aws.amazon.com/training/learn-about/cloud-practitioner/",
		Skills:      []string{"cloud computing", "aws", "devops"},
		Difficulty:  "Beginner",
		Description: "Learn AWS cloud fundamentals and core services",
	},
	{
		ID:          9,
		Title:       "Docker for Beginners",
		Platform:    "Docker",
		Type:        "Tutorial",
		Duration:    "4 hours",
		Rating:      4.5,
		Students:    "600K",
		URL:         "https://docker-curriculum.com/",
		Skills:      []string{"docker", "containers", "devops"},
		Difficulty:  "Beginner to Intermediate",
		Description: "Learn containerization with Docker",
	},
	{
		ID:          10,
		Title:       "Git & GitHub Crash Course",
		Platform:    "freeCodeCamp",
		Type:        "Video Course",
		Duration:    "1.5 hours",
		Rating:      4.7,
		Students:    "1.8M",
		URL:         "https://www.youtube.com/watch?v=SWYqp7iY_Tc",
		Skills:      []string{"git", "github", "version control"},
		Difficulty:  "Beginner",
		Description: "Complete Git and GitHub tutorial for beginners",
	},
	{
		ID:          11,
		Title:       "System Design Interview",
		Platform:    "Grokking",
		Type:        "Course",
		Duration:    "8 hours",
		Rating:      4.8,
		Students:    "150K",
		URL:         "https://www.educative.io/courses/grokking-the-system-design-interview",
		Skills:      []string{"system design", "architecture", "scalability"},
		Difficulty:  "Advanced",
		Description: "Master system design for technical interviews",
	},
	{
		ID:          12,
		Title:       "Cybersecurity Fundamentals",
		Platform:    "Cybrary",
		Type:        "Course",
		Duration:    "10 hours",
		Rating:      4.6,
		Students:    "400K",
		URL:         "https://www.cybrary.it/course/comptia-cysa/",
		Skills:      []string{"cybersecurity", "security", "networking"},
		Difficulty:  "Beginner to Intermediate",
		Description: "Learn cybersecurity basics and best practices",
	},
}
