package gap

// buildRoadmap assembles the phased development plan for one opportunity.
// The template is fixed and keyed off the adjusted level: foundation work
// only below 2.5, advanced practice only below 4, development and mastery
// always. Activities are intentionally non-personalized.
func buildRoadmap(adjustedLevel float64) []Phase {
	roadmap := []Phase{}

	if adjustedLevel < 2.5 {
		roadmap = append(roadmap, Phase{
			Phase:    "Foundation Building",
			Duration: "2-4 weeks",
			Activities: []string{
				"Complete introductory tutorials and courses",
				"Practice basic concepts through exercises",
				"Build simple projects to reinforce learning",
			},
		})
	}

	roadmap = append(roadmap, Phase{
		Phase:    "Skill Development",
		Duration: "4-6 weeks",
		Activities: []string{
			"Work on intermediate-level projects",
			"Study real-world applications and use cases",
			"Participate in coding challenges or exercises",
		},
	})

	if adjustedLevel < 4 {
		roadmap = append(roadmap, Phase{
			Phase:    "Advanced Practice",
			Duration: "6-8 weeks",
			Activities: []string{
				"Build complex, portfolio-worthy projects",
				"Contribute to open-source or team projects",
				"Prepare for technical interviews and assessments",
			},
		})
	}

	roadmap = append(roadmap, Phase{
		Phase:    "Mastery & Specialization",
		Duration: "Ongoing",
		Activities: []string{
			"Stay updated with latest trends and technologies",
			"Mentor others and share knowledge",
			"Pursue advanced certifications or specializations",
		},
	})

	return roadmap
}
