package redisutils

import "strconv"

// FormatDistance() formats a distance into a string ready to be stored in Redis.
func FormatDistance(distance int) string {
	return strconv.Itoa(distance)
}

// ParseDistance() parses a distance from the specified string
func ParseDistance(strVal string) (int, error) {
	return strconv.Atoi(strVal)
}

// ParseDistances() parses the result of an HGetAll on the distances hash
// into a map title --> distance.
func ParseDistances(fields map[string]string) (map[string]int, error) {
	distances := make(map[string]int, len(fields))
	for title, strVal := range fields {
		distance, err := ParseDistance(strVal)
		if err != nil {
			return nil, err
		}

		distances[title] = distance
	}

	return distances, nil
}
