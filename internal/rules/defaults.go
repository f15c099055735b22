package rules

import "github.com/shopspring/decimal"

// Labels referenced outside the rule table.
const (
	LabelUncategorized   = "Uncategorized"
	LabelVending         = "Vending Machine"
	LabelGasoline        = "Gasoline"
	LabelGasIndiscretion = "Gas Station Indiscretion"
	LabelWalmart         = "Walmart"
	LabelDoorDash        = "DoorDash"
	LabelUberEats        = "Uber Eats"
	LabelUberTaxi        = "Uber Taxi"
	LabelAmazonPrime     = "Amazon Prime"
	LabelAmazonShopping  = "Amazon Shopping"
	LabelDiningOther     = "Dining (Other)"
)

// Policy holds the tunable constants of the built-in table.
type Policy struct {
	FuelThreshold decimal.Decimal
}

// DefaultPolicy returns the policy with a $30 fuel threshold.
func DefaultPolicy() Policy {
	return Policy{FuelThreshold: decimal.NewFromInt(30)}
}

func r(label string, patterns ...string) Rule {
	return Rule{Label: label, Patterns: patterns}
}

// DefaultTable returns the built-in rule table.
func DefaultTable(p Policy) Table {
	return Table{Tiers: []Tier{
		{Name: "vending", Rules: []Rule{
			r(LabelVending, "AMK MSU", "AMK POD", "CTLP", "COCA COLA CLARK", "COCA COLA SOUTH", "365 MARKET K"),
		}},
		{Name: "utilities", Rules: []Rule{
			r("Electricity", "SIMPLEBILLS", "SIMPLE BILLS"),
		}},
		{Name: "fuel", Rules: []Rule{
			{
				Patterns: []string{
					"SHELL", "LOVE'S", "LOVE S", "BUC-EE", "BUCEE", "EXXON", "CHEVRON",
					"MARATHON", "MURPHY", "QT ", "QUIKTRIP", "PILOT", "CIRCLE K",
					"SPRINT MART", "76 - DEES", "76 DEES", "TEXACO", "BP#", "ON THE WAY",
				},
				Split: &AmountSplit{
					Threshold: p.FuelThreshold,
					Below:     LabelGasIndiscretion,
					AtOrAbove: LabelGasoline,
				},
			},
		}},
		{Name: "big-box", Rules: []Rule{
			r(LabelWalmart, "WALMART", "WAL-MART", "WM SUPERCENTER", "WALMART.COM"),
		}},
		{Name: "subscriptions", Rules: []Rule{
			r("Books (Kindle)", "KINDLE"),
			r("Netflix", "NETFLIX"),
			r("Disney+", "DISNEY PLUS", "DISNEY+"),
			r("YouTube Premium", "YOUTUBE"),
			r("Google One", "GOOGLE *ONE", "GOOGLE ONE"),
			r("Hinge", "HINGE"),
			r("Apple", "APPLE.COM"),
		}},
		{Name: "professional", Rules: []Rule{
			r("LinkedIn Premium", "LINKEDIN"),
			r("Resume Services", "STP*V*RESUME", "RESUMEEXAMPLE", "RESUME-EXAMPLE"),
			r("Visa Services (Atlys)", "ATLYS"),
			r("DMV/DPS", "MSDPS"),
		}},
		{Name: "cloud", Rules: []Rule{
			r("API Costs (Google Cloud)", "GOOGLE *CLOUD", "GOOGLE CLOUD"),
			r("API Costs (Google Colab)", "GOOGLE COLAB", "COLAB"),
			r("API Costs (AWS)", "AWS.AMAZON", "AWS EMEA", "AMAZON WEB SERVICES"),
			r("API Costs (ElevenLabs)", "ELEVENLABS", "ELEVEN LABS"),
		}},
		{Name: "transport", Rules: []Rule{
			r(LabelUberTaxi, "UBER *TRIP", "UBER   *TRIP"),
			r("Lyft", "PAYPAL *LYFT", "LYFT"),
			r("NYC Transit", "MTA*NYCT", "OMNY"),
			r("Bird Scooter", "BIRD APP"),
			r("Ferry", "HNYFERRYIIL", "FERRY"),
		}},
		{Name: "clothing", Rules: []Rule{
			r("Clothes (Marshalls)", "MARSHALLS"),
			r("Clothes (Century 21)", "CENTURY 21"),
			r("Clothes (H&M)", "H&M "),
			r("Clothes (Nike)", "KLARNA*NIKE", "KLARNA* NIKE", "NIKE"),
			r("Five Below", "FIVE BELOW"),
		}},
		{Name: "grocery", Rules: []Rule{
			r("Grocery (Kroger)", "KROGER"),
			r("Grocery (Aldi)", "ALDI"),
			r("Grocery (Patel Brothers)", "PATEL BROTHERS"),
			r("Deli/Grocery (NYC)", "B & W DELI"),
		}},
		{Name: "shopping", Rules: []Rule{
			r("Books", "MCNALLY JACKSON"),
			r("Dollar General", "DOLLAR-GENERAL", "DOLLAR GENERAL"),
			r("Target", "TARGET"),
			r("Electronics (Micro Center)", "MICRO CENTER"),
			r("NYC Gift Shop", "NYC GIFTS"),
			r("WHSmith (Airport)", "WH SMITH"),
			r("Boots (UK Pharmacy)", "BOOTS"),
			r("MSU MAFES Store", "MAFES SALES"),
			r("Nassau Street Store", "NASSAU STREET"),
		}},
		{Name: "services", Rules: []Rule{
			r("Phone Service", "US MOBILE", "USMOBILE"),
			r("Renters Insurance", "TOGGLE INSURANCE"),
			r("Health Insurance", "MOLINA HEALTH", "AMBETTER", "WELLCARE"),
			r("Shipping (UPS)", "UPS STORE"),
			r("Haircut", "SPORT CLIPS"),
			r("Printing", "COPY COW"),
			r("Textbooks (Pearson)", "PEARSON"),
			r("MSU Health Center", "MSU STUDENT HEALTH"),
			r("MSU Campus", "MSU CAMPUS"),
			r("Medical Payment", "HCC MEDICAL", "HCCMEDICAL"),
			r("Car Wash", "MIDTOWN WASH"),
			r("Parking", "GREENE ST DECK"),
			r("Online Service", "SOLIDGATE"),
			r("Bicycle Repair", "BICYCLE REP"),
		}},
		{Name: "travel", Rules: []Rule{
			r("Flight (Virgin Atlantic)", "VIRGIN ATLANTIC"),
			r("Chase Travel", "CHASE TRAVEL", "TRIPCHRG"),
			r("Hotel (Super 8)", "SUPER 8"),
		}},
		{Name: "entertainment", Rules: []Rule{
			r("Movie Theater", "UEC THEATRE"),
			r("TopGolf", "TOPGOLF"),
		}},
		{Name: "e-commerce", Rules: []Rule{
			r("Microsoft", "MICROSOFT"),
			r(LabelAmazonPrime, "AMAZON PRIME", "AMZN PRIME", "PRIME VIDEO"),
			{Label: LabelAmazonPrime, Patterns: []string{"AMAZON", "AMZN"}, Require: []string{"PRIME"}},
			r(LabelAmazonShopping, "AMAZON", "AMZN"),
			r("Alipay Transfer", "ALIPAY"),
		}},
		{Name: "dining", Rules: []Rule{
			r(LabelDoorDash, "DD *DOORDASH", "DOORDASH"),
			r("Grubhub", "GRUBHUB"),
			r(LabelUberEats, "UBER *EATS", "UBER EATS", "UBEREATS", "UBER   *EATS"),
			r("Wendy's", "WENDYS", "WENDY'S", "WENDY S"),
			r("McDonald's", "MCDONALD"),
			r("Taco Bell", "TACO BELL"),
			r("Burger King", "BURGER KING"),
			r("Chick-fil-A", "CHICK-FIL-A", "CHICKFILA", "CHICK FIL"),
			r("Raising Cane's", "RAISING CANE"),
			r("Cook Out", "COOK OUT", "COOKOUT"),
			r("Waffle House", "WAFFLE HOUSE"),
			r("Chili's", "CHILIS", "CHILI'S", "CHILI S"),
			r("Buffalo Wild Wings", "BUFFALOWI", "BUFFALO"),
			r("Thai Restaurant", "ANDAMAN THAI"),
			r("Pita Pit", "PITA PIT"),
			r("Domino's", "DOMINOS", "DOMINO"),
			r("Pizza", "PIZZA", "LITTLE ITALY"),
			r("Starbucks", "STARBUCKS"),
			r("High Ground Coffee", "HIGH GROUND COFFEE"),
			r("Dunkin", "DUNKIN"),
			r("Panda Express", "PANDA EXPRESS", "TECH DINING-PANDA"),
			r("Boardtown Pies", "BOARDTOWN"),
			r("Dave's Dark Horse", "DAVES DARK HORSE"),
			r("Taxi Shop Café", "TAXI SHOP CAF"),
			r("Food Vendor", "RETAG FOOD"),
			r("NYC Halal Food", "HALAL", "BARHOSHA", "HOODA", "YASSO", "CAIRO"),
			r(LabelDiningOther,
				"RESTAURANT", "GRILL", "CAFE", "DINER", "BISTRO", "KITCHEN",
				"TST* ", "BBQ", "TAQUERIA", "BAKERY", "EATERY"),
		}},
		{Name: "cleanup", Rules: []Rule{
			r("Google Services", "PAYPAL *GOOGLE", "GOOGLE *", "GOOGLE "),
			r("Uber (Other)", "UBER"),
		}},
	}}
}
