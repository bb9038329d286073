package domain

// SeedActivities returns a fresh copy of the activity catalog the service starts with.
func SeedActivities() []Activity {
	return []Activity{
		{
			Name:            "Chess Club",
			Category:        "Intellectual",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Category:        "Intellectual",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Debate Club",
			Category:        "Intellectual",
			Description:     "Develop public speaking and critical thinking skills",
			Schedule:        "Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"alex@mergington.edu"},
		},
		{
			Name:            "Science Olympiad",
			Category:        "Intellectual",
			Description:     "Compete in science competitions and conduct experiments",
			Schedule:        "Mondays and Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"james@mergington.edu", "sarah@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Category:        "Sports",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Basketball Team",
			Category:        "Sports",
			Description:     "Join the varsity and intramural basketball teams",
			Schedule:        "Tuesdays, Thursdays, Saturdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 25,
			Participants:    []string{"marcus@mergington.edu", "jessica@mergington.edu"},
		},
		{
			Name:            "Track and Field",
			Category:        "Sports",
			Description:     "Train for sprints, distance, and field events",
			Schedule:        "Mondays through Fridays, 3:45 PM - 5:00 PM",
			MaxParticipants: 40,
			Participants:    []string{"ryan@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Category:        "Artistic",
			Description:     "Perform in school plays and theatrical productions",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"lucas@mergington.edu", "ava@mergington.edu"},
		},
		{
			Name:            "Art Workshop",
			Category:        "Artistic",
			Description:     "Explore painting, drawing, and sculpture techniques",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{"madison@mergington.edu"},
		},
		{
			Name:            "Music Band",
			Category:        "Artistic",
			Description:     "Play instruments and perform in concerts",
			Schedule:        "Mondays and Fridays, 3:30 PM - 4:45 PM",
			MaxParticipants: 22,
			Participants:    []string{"noah@mergington.edu", "isabella@mergington.edu"},
		},
	}
}
