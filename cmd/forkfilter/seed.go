package main

import "github.com/forkfilter/forkfilter/internal/store"

func intp(n int) *int { return &n }

// Dallas-area fixture rows for local development.
var seedRestaurants = []store.Restaurant{
	{Name: "Falafel House", Lat: 32.780, Lng: -96.800, PriceTier: intp(2), Halal: true, Menu: "falafel|shawarma|hummus", Neighborhood: "Dallas"},
	{Name: "Shawarma King", Lat: 32.948, Lng: -96.730, PriceTier: intp(2), Halal: true, Menu: "shawarma|tabbouleh|wraps", Neighborhood: "Richardson"},
	{Name: "Taco Spot", Lat: 32.785, Lng: -96.810, PriceTier: intp(1), Halal: false, Menu: "tacos|queso|chips", Neighborhood: "Dallas"},
	{Name: "Pho Corner", Lat: 33.020, Lng: -96.699, PriceTier: intp(2), Halal: false, Menu: "pho|noodles|banh mi", Neighborhood: "Plano"},
	{Name: "Big D Burger", Lat: 32.814, Lng: -96.949, PriceTier: intp(2), Halal: false, Menu: "burger|fries|shakes", Neighborhood: "Irving"},
	{Name: "Cowtown Pizza", Lat: 32.756, Lng: -97.331, PriceTier: intp(2), Halal: false, Menu: "pizza|margherita|pepperoni", Neighborhood: "Fort Worth"},
	{Name: "BBQ Junction", Lat: 32.736, Lng: -97.108, PriceTier: intp(3), Halal: false, Menu: "brisket|ribs|sides", Neighborhood: "Arlington"},
	{Name: "Frisco Sushi", Lat: 33.151, Lng: -96.824, PriceTier: intp(3), Halal: false, Menu: "sushi|rolls|sashimi", Neighborhood: "Frisco"},
	{Name: "Carrollton Curry", Lat: 32.976, Lng: -96.890, PriceTier: intp(2), Halal: true, Menu: "biryani|curry|naan", Neighborhood: "Carrollton"},
	{Name: "Garland Noodle House", Lat: 32.913, Lng: -96.639, PriceTier: intp(1), Halal: false, Menu: "noodles|dumplings|fried rice", Neighborhood: "Garland"},
	{Name: "Addison Kebab", Lat: 32.962, Lng: -96.829, PriceTier: intp(2), Halal: true, Menu: "kebab|shawarma|hummus", Neighborhood: "Addison"},
	{Name: "Denton Diner", Lat: 33.215, Lng: -97.133, PriceTier: intp(1), Halal: false, Menu: "pancakes|omelette|coffee", Neighborhood: "Denton"},
}

// seedCheckins makes a few places look busy right after seeding.
var seedCheckins = map[string]int{
	"Shawarma King": 8,
	"Falafel House": 5,
	"Taco Spot":     2,
}
