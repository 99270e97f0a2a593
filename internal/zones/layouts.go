package zones

import "time"

const baseRadius = 80

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// circleZones are centred on the access points of the reference plan.
var circleZones = []Zone{
	{ID: "entrance", Name: "Entrance", Icon: "🚪", Color: "#4caf50", Shape: Circle(100, 50, baseRadius*0.8), Dwell: ms(3000)},
	{ID: "fresh-produce", Name: "Fresh Produce", Icon: "🥬", Color: "#a5d6a7", Shape: Circle(300, 50, baseRadius), Dwell: ms(5000)},
	{ID: "bakery", Name: "Bakery", Icon: "🥐", Color: "#ffe0b2", Shape: Circle(500, 50, baseRadius*0.9), Dwell: ms(4000)},
	{ID: "deli-meats", Name: "Deli & Meats", Icon: "🥩", Color: "#ffcdd2", Shape: Circle(700, 50, baseRadius), Dwell: ms(6000)},
	{ID: "dairy-eggs", Name: "Dairy & Eggs", Icon: "🥛", Color: "#b3e5fc", Shape: Circle(100, 250, baseRadius), Dwell: ms(3000)},
	{ID: "pantry-aisles", Name: "Pantry Aisles", Icon: "🥫", Color: "#fff176", Shape: Circle(300, 250, baseRadius*1.1), Dwell: ms(8000)},
	{ID: "frozen-foods", Name: "Frozen Foods", Icon: "❄️", Color: "#b2ebf2", Shape: Circle(500, 250, baseRadius), Dwell: ms(4000)},
	{ID: "beverages", Name: "Beverages", Icon: "🥤", Color: "#c5cae9", Shape: Circle(700, 250, baseRadius*0.9), Dwell: ms(3500)},
	{ID: "pharmacy", Name: "Pharmacy", Icon: "💊", Color: "#ffb7c5", Shape: Circle(100, 450, baseRadius*0.7), Dwell: ms(6000)},
	{ID: "health-beauty", Name: "Health & Beauty", Icon: "💄", Color: "#e1bee7", Shape: Circle(300, 450, baseRadius*0.8), Dwell: ms(5000)},
	{ID: "checkout", Name: "Checkout", Icon: "💳", Color: "#ce93d8", Shape: Circle(500, 450, baseRadius*1.2), Dwell: ms(7000)},
	{ID: "customer-service", Name: "Customer Service", Icon: "🛎️", Color: "#bbdefb", Shape: Circle(700, 450, baseRadius*0.6), Dwell: ms(4000)},
	{ID: "exit", Name: "Exit", Icon: "🚪", Color: "#f44336", Shape: Circle(100, 550, baseRadius*0.7), Dwell: ms(2000)},
	{ID: "self-checkout", Name: "Self Checkout", Icon: "🤖", Color: "#9c27b0", Shape: Circle(300, 550, baseRadius*0.9), Dwell: ms(5000)},
	{ID: "shopping-carts", Name: "Shopping Carts", Icon: "🛒", Color: "#9e9e9e", Shape: Circle(500, 550, baseRadius*0.6), Dwell: ms(2000)},
	{ID: "restrooms", Name: "Restrooms", Icon: "🚻", Color: "#795548", Shape: Circle(700, 550, baseRadius*0.5), Dwell: ms(3000)},
}

// aisleZones tile the plan with non-overlapping departments.
var aisleZones = []Zone{
	{ID: "entrance", Name: "Entrance", Icon: "🚪", Color: "#4caf50", Shape: Rectangle(20, 20, 130, 120), Dwell: ms(3000)},
	{ID: "fresh-produce", Name: "Fresh Produce", Icon: "🥬", Color: "#a5d6a7", Shape: Rectangle(180, 20, 180, 120), Dwell: ms(5000)},
	{ID: "bakery", Name: "Bakery", Icon: "🥐", Color: "#ffe0b2", Shape: Rectangle(390, 20, 160, 120), Dwell: ms(4000)},
	{ID: "deli-meats", Name: "Deli & Meats", Icon: "🥩", Color: "#ffcdd2", Shape: Rectangle(580, 20, 200, 120), Dwell: ms(6000)},
	{ID: "dairy-eggs", Name: "Dairy & Eggs", Icon: "🥛", Color: "#b3e5fc", Shape: Rectangle(20, 160, 130, 120), Dwell: ms(3000)},
	{ID: "pantry-aisles", Name: "Pantry Aisles", Icon: "🥫", Color: "#fff176", Shape: Rectangle(180, 160, 300, 120), Dwell: ms(8000)},
	{ID: "frozen-foods", Name: "Frozen Foods", Icon: "❄️", Color: "#b2ebf2", Shape: Rectangle(500, 160, 130, 120), Dwell: ms(4000)},
	{ID: "beverages", Name: "Beverages", Icon: "🥤", Color: "#c5cae9", Shape: Rectangle(650, 160, 130, 120), Dwell: ms(3500)},
	{ID: "pharmacy", Name: "Pharmacy", Icon: "💊", Color: "#ffb7c5", Shape: Rectangle(20, 300, 130, 150), Dwell: ms(6000)},
	{ID: "health-beauty", Name: "Health & Beauty", Icon: "💄", Color: "#e1bee7", Shape: Rectangle(180, 300, 150, 150), Dwell: ms(5000)},
	{ID: "customer-service", Name: "Customer Service", Icon: "🛎️", Color: "#bbdefb", Shape: Rectangle(350, 300, 130, 150), Dwell: ms(4000)},
	{ID: "checkout", Name: "Checkout", Icon: "💳", Color: "#ce93d8", Shape: Rectangle(500, 300, 200, 150), Dwell: ms(7000)},
	{ID: "exit", Name: "Exit", Icon: "🚪", Color: "#f44336", Shape: Rectangle(20, 470, 130, 110), Dwell: ms(2000)},
	{ID: "self-checkout", Name: "Self Checkout", Icon: "🤖", Color: "#9c27b0", Shape: Rectangle(180, 470, 200, 110), Dwell: ms(5000)},
	{ID: "shopping-carts", Name: "Shopping Carts", Icon: "🛒", Color: "#9e9e9e", Shape: Rectangle(400, 470, 150, 110), Dwell: ms(2000)},
	{ID: "restrooms", Name: "Restrooms", Icon: "🚻", Color: "#795548", Shape: Rectangle(580, 470, 180, 110), Dwell: ms(3000)},
}
