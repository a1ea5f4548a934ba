package qualp

// Request payload for the rotas v4 endpoint. The shape mirrors the API's
// nested JSON config exactly; only locations, axle count and the freight
// table tier vary per quote.

type routeRequest struct {
	Locations    []string    `json:"locations"`
	Config       routeConfig `json:"config"`
	Show         routeShow   `json:"show"`
	Format       string      `json:"format"`
	ExceptionKey string      `json:"exception_key"`
}

type routeConfig struct {
	Route           routeOptions   `json:"route"`
	Vehicle         vehicleOptions `json:"vehicle"`
	Tolls           tollOptions    `json:"tolls"`
	FreightTable    freightOptions `json:"freight_table"`
	FuelConsumption fuelOptions    `json:"fuel_consumption"`
	PrivatePlaces   privateOptions `json:"private_places"`
}

type routeOptions struct {
	OptimizedRoute            bool   `json:"optimized_route"`
	OptimizedRouteDestination string `json:"optimized_route_destination"`
	CalculateReturn           bool   `json:"calculate_return"`
	AlternativeRoutes         int    `json:"alternative_routes"`
	AvoidLocations            bool   `json:"avoid_locations"`
	AvoidLocationsKey         string `json:"avoid_locations_key"`
	TypeRoute                 string `json:"type_route"`
}

type vehicleOptions struct {
	Type     string `json:"type"`
	Axis     int    `json:"axis"`
	TopSpeed *int   `json:"top_speed"`
}

type tollOptions struct {
	RetroactiveDate string `json:"retroactive_date"`
}

type freightOptions struct {
	Category    string `json:"category"`
	FreightLoad string `json:"freight_load"`
	Axis        int    `json:"axis"`
}

type fuelOptions struct {
	FuelPrice *float64 `json:"fuel_price"`
	KmFuel    *float64 `json:"km_fuel"`
}

type privateOptions struct {
	MaxDistanceFromLocationToRoute int  `json:"max_distance_from_location_to_route"`
	Categories                     bool `json:"categories"`
	Areas                          bool `json:"areas"`
	Contacts                       bool `json:"contacts"`
	Products                       bool `json:"products"`
	Services                       bool `json:"services"`
}

type routeShow struct {
	Tolls              bool `json:"tolls"`
	FreightTable       bool `json:"freight_table"`
	Maneuvers          bool `json:"maneuvers"`
	TruckScales        bool `json:"truck_scales"`
	StaticImage        bool `json:"static_image"`
	LinkToQualp        bool `json:"link_to_qualp"`
	PrivatePlaces      bool `json:"private_places"`
	Polyline           bool `json:"polyline"`
	SimplifiedPolyline bool `json:"simplified_polyline"`
	UFs                bool `json:"ufs"`
	FuelConsumption    bool `json:"fuel_consumption"`
	LinkToQualpReport  bool `json:"link_to_qualp_report"`
}

// Response is the round-trip route quote returned by the rotas v4 endpoint.
type Response struct {
	Distancia               TextValue      `json:"distancia"`
	Duracao                 TextValue      `json:"duracao"`
	DistanciaNaoPavimentada UnpavedStretch `json:"distancia_nao_pavimentada"`
	TabelaFrete             FreightTable   `json:"tabela_frete"`
	Pedagios                []Toll         `json:"pedagios"`
	Balancas                []WeighStation `json:"balancas"`
	LinkSiteQualp           string         `json:"link_site_qualp"`
}

// TextValue carries a figure plus its display text; only the text is used
// in reports.
type TextValue struct {
	Valor float64 `json:"valor"`
	Texto string  `json:"texto"`
}

type UnpavedStretch struct {
	Texto           string `json:"texto"`
	PercentualTexto string `json:"percentual_texto"`
}

// FreightTable holds per-axle tariffs keyed by category, then axle count
// (as a string), then load type.
type FreightTable struct {
	Dados         map[string]map[string]map[string]float64 `json:"dados"`
	ANTTResolucao Resolution                               `json:"antt_resolucao"`
}

type Resolution struct {
	Nome string `json:"nome"`
	Data string `json:"data"`
}

// Toll is one toll plaza on the route, with its tariff per axle count.
type Toll struct {
	Nome   string             `json:"nome"`
	Tarifa map[string]float64 `json:"tarifa"`
}

type WeighStation struct {
	Nome string `json:"nome"`
	UF   string `json:"uf"`
}
