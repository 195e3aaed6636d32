package domain

// User is the authenticated profile returned by the backend on login and
// token verification. Its company fields seed the bill-from party of new
// drafts.
type User struct {
	ID          string `json:"_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
}

// BillFrom builds the issuer party for a new draft, preferring the user's
// profile and falling back to the given defaults for unset fields.
func (u *User) BillFrom(defaults PartyInfo) PartyInfo {
	from := defaults
	if u == nil {
		return from
	}
	if u.CompanyName != "" {
		from.Name = u.CompanyName
	}
	if u.Address != "" {
		from.Address = u.Address
	}
	if u.City != "" {
		from.City = u.City
	}
	if u.Phone != "" {
		from.Phone = u.Phone
	}
	if u.Email != "" {
		from.Email = u.Email
	}
	return from
}
