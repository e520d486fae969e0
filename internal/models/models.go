package models

// AllModels lists every table the tracker migrates
func AllModels() []any {
	return []any{
		&User{}, &Profile{}, &Ingredient{}, &Pizza{}, &PizzaIngredient{},
		&Group{}, &GroupMember{}, &Friendship{}, &UserYearlyCounter{},
		&OAuthClient{}, &OAuthToken{},
	}
}
