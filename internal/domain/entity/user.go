package entity

// Member is a student as known to the project API.
type Member struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// Workgroup is a set of students working on the same project.
type Workgroup struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

func (w Workgroup) MemberIDs() []int {
	ids := make([]int, 0, len(w.Members))
	for _, m := range w.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

// Teammates returns the workgroup members other than userID.
func (w Workgroup) Teammates(userID int) []Member {
	teammates := make([]Member, 0, len(w.Members))
	for _, m := range w.Members {
		if m.ID != userID {
			teammates = append(teammates, m)
		}
	}
	return teammates
}
