package claim

import "strconv"

// Product is a purchase that earns carbon tokens when claimed.
type Product struct {
	ID    int
	Name  string
	Image string
	// Carbon reduction in tons, paid out as the same number of tokens.
	Carbon      int
	Description string
}

var catalogue = []*Product{
	{
		ID:     1,
		Name:   "Tesla Model X",
		Image:  "https://cdni.autocarindia.com/Utils/ImageResizer.ashx?n=http%3A%2F%2Fcdni.autocarindia.com%2FNews%2Ftesla_model_x.jpg&c=0",
		Carbon: 600,
		Description: "A major difference between electric and gas cars is that electric cars keep getting cleaner over time. " +
			"A Tesla on the average US electricity mix saves some 600 pounds of CO2e per year compared to an efficient new gas car. " +
			"In 10 years that gas car will be sputtering along with lower efficiency due to wear and tear, " +
			"while the electric car gets cleaner as the grid gets cleaner.",
	},
	{
		ID:     2,
		Name:   "Apple Watch SE",
		Image:  "https://fdn2.gsmarena.com/vv/pics/apple/apple-watch-se-2.jpg",
		Carbon: 400,
		Description: "Stay on top of your health with high and low heart rate and irregular heart rhythm notifications. " +
			"Apple Watch can detect if you have taken a hard fall and call emergency services for you. " +
			"Sync your favourite music and podcasts.",
	},
}

// Products returns the catalogue.
func Products() []*Product {
	return catalogue
}

// Find looks up a product by its id in string form.
func Find(id string) (*Product, bool) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, false
	}
	for _, p := range catalogue {
		if p.ID == n {
			return p, true
		}
	}
	return nil, false
}
