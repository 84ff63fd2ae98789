package models

import "github.com/a-h/templ"

type User struct {
	ID       string
	Name     string
	Email    string
	IsActive bool
	IsSeller bool
}

type NavItem struct {
	Name string
	URL  string
	Icon string
}

type Navigation struct {
	Items []NavItem
}

type LayoutTempl struct {
	Title     string
	User      *User
	Nav       Navigation
	ActiveNav string
	Alerts    []Alert
	Content   templ.Component
}

var MainNav = Navigation{
	Items: []NavItem{
		{Name: "Browse", URL: "/browse"},
		{Name: "Downloads", URL: "/downloads"},
		{Name: "Research", URL: "/research"},
		{Name: "Terminal", URL: "/terminal"},
		{Name: "Orders", URL: "/orders"},
	},
}

var OfflineNav = Navigation{
	Items: []NavItem{
		{Name: "Browse", URL: "/browse"},
		{Name: "About", URL: "/about"},
		{Name: "Downloads", URL: "/downloads"},
		{Name: "Research", URL: "/research"},
	},
}
