package aggregator

import "sort"

// UserSet множество логинов
type UserSet map[string]struct{}

// Has проверяет принадлежность логина множеству
func (s UserSet) Has(user string) bool {
	_, ok := s[user]
	return ok
}

// Len размер множества
func (s UserSet) Len() int {
	return len(s)
}

// Sorted возвращает логины по алфавиту
func (s UserSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for user := range s {
		out = append(out, user)
	}
	sort.Strings(out)
	return out
}

// Roster фиксированный состав подгруппы, сравнение по точному совпадению логина
type Roster map[string]struct{}

// NewRoster строит состав из списка логинов
func NewRoster(users ...string) Roster {
	r := make(Roster, len(users))
	for _, u := range users {
		if u == "" {
			continue
		}
		r[u] = struct{}{}
	}
	return r
}

// Has проверяет членство в подгруппе
func (r Roster) Has(user string) bool {
	_, ok := r[user]
	return ok
}

// Members возвращает состав по алфавиту
func (r Roster) Members() []string {
	return UserSet(r).Sorted()
}
