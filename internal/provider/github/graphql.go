package github

import "strings"

const calendarSelection = `contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionCount
            color
          }
        }
      }
    }`

func calendarQuery(withViewer bool) string {
	var b strings.Builder
	b.WriteString("query($login: String!, $from: DateTime!, $to: DateTime!) {\n")
	b.WriteString("  user(login: $login) {\n    ")
	b.WriteString(calendarSelection)
	b.WriteString("\n  }\n")
	if withViewer {
		b.WriteString("  viewer {\n    login\n    ")
		b.WriteString(calendarSelection)
		b.WriteString("\n  }\n")
	}
	b.WriteString("}")
	return b.String()
}

type graphQLResponse struct {
	Data *struct {
		User   *calendarOwner `json:"user"`
		Viewer *calendarOwner `json:"viewer"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type calendarOwner struct {
	Login                   string `json:"login"`
	ContributionsCollection struct {
		ContributionCalendar contributionCalendar `json:"contributionCalendar"`
	} `json:"contributionsCollection"`
}

type contributionCalendar struct {
	TotalContributions int `json:"totalContributions"`
	Weeks              []struct {
		ContributionDays []contributionDay `json:"contributionDays"`
	} `json:"weeks"`
}

type contributionDay struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
	Color             string `json:"color"`
}

type contributorEntry struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// splitGraphQLErrors reports whether any error says the login could not be
// resolved, and returns the messages of all other errors.
func splitGraphQLErrors(errs []graphQLError) (bool, []string) {
	notFound := false
	var other []string
	for _, e := range errs {
		if e.Type == "NOT_FOUND" || strings.Contains(e.Message, "Could not resolve to a User") {
			notFound = true
			continue
		}
		other = append(other, e.Message)
	}
	return notFound, other
}
