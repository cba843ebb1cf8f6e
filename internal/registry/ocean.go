package registry

import (
	"sync"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
)

// Default returns the shared ocean-safety registry. It is built on first use
// and never changes afterwards.
var Default = sync.OnceValue(func() *Registry {
	places, err := ParsePlaces(placesYAML)
	if err != nil {
		panic(err)
	}
	return MustNew(OceanDomains(), places)
})

// OceanDomains returns the authoring specs of the built-in topics, in
// registry order. Weights are hand-tuned and deliberately not normalized.
func OceanDomains() []DomainSpec {
	return []DomainSpec{
		oceanHazards(),
		beachTourism(),
		coastalCommunities(),
		marineTech(),
		seaRoutes(),
		disasterManagement(),
	}
}

func oceanHazards() DomainSpec {
	return DomainSpec{
		ID:   domain.OceanHazards,
		Name: "Ocean Hazards",
		Patterns: []WeightedPattern{
			{Stems("tsunami", "tidal wave", "seismic wave"), 2.0},
			{Stems("flood", "inundation", "high water"), 1.8},
			{Stems("wave", "high wave", "big wave", "rogue wave", "sneaker wave"), 1.5},
			{Regex(`\b(?:(?:rip|strong)\s+)?currents?\b|\bundertow`), 1.7},
			{Stems("storm", "cyclone", "hurricane", "typhoon"), 1.6},
			{Stems("erosion", "beach erosion", "coastal erosion"), 1.4},
			{Stems("pollution", "oil spill", "contamination", "marine debris"), 1.3},
			{Stems("earthquake", "seismic", "tremor"), 1.2},
		},
		SubIntents: []SubIntent{
			{
				Name:     "tsunami",
				Keywords: []string{"tsunami", "tidal wave"},
				Response: "🚨 **Tsunami Safety**: Move to higher ground immediately if you feel an earthquake near the coast. Tsunamis can travel at jet speeds in deep water. Never wait for official warnings if you feel strong shaking.",
			},
			{
				Name:     "flood",
				Keywords: []string{"flood", "inundation", "high water"},
				Response: "⚠️ **Coastal Flooding**: Avoid flood waters; just 15 cm of moving water can sweep you off your feet. Monitor tide charts and weather forecasts. Know your evacuation routes.",
			},
			{
				Name:     "wave",
				Keywords: []string{"wave", "swell"},
				Excludes: []string{"heat wave", "heatwave", "microwave"},
				Response: "🌊 **Wave Safety**: Never turn your back to the ocean. Watch the waves for 15+ minutes before entering the water. If waves break above waist height, stay out.",
			},
			{
				Name:     "current",
				Keywords: []string{"current", "undertow"},
				Response: "💨 **Rip Currents**: If caught, stay calm and float. Don't fight the current. Swim parallel to shore to escape, then swim back in at an angle.",
			},
			{
				Name:     "storm",
				Keywords: []string{"storm", "cyclone", "hurricane", "typhoon"},
				Response: "⛈️ **Coastal Storms**: Monitor official forecasts. Secure outdoor items. Avoid beach areas. Prepare an emergency kit with at least 3 days of supplies.",
			},
			{
				Name:     "erosion",
				Keywords: []string{"erosion"},
				Response: "🏖️ **Beach Erosion**: Avoid unstable cliffs and dunes. Stay on marked paths. Erosion accelerates during storms and high tides.",
			},
			{
				Name:     "pollution",
				Keywords: []string{"pollution", "oil spill", "contamination", "debris"},
				Response: "🛢️ **Water Pollution**: Check beach advisory notices. Avoid swimming after heavy rain. Report pollution incidents to the local authorities.",
			},
			{
				Name:     "earthquake",
				Keywords: []string{"earthquake", "seismic", "tremor"},
				Response: "📳 **Coastal Earthquakes**: If you feel strong shaking near the coast, move to high ground immediately. A tsunami can arrive within minutes.",
			},
		},
		Default:          "For specific hazard information, tell me which ocean hazard you're concerned about: tsunami, flooding, waves, rip currents, storms, erosion or pollution.",
		FollowUp:         "Would you like more specific information about preparing for this type of ocean hazard? I can walk you through preparedness steps, warning signs, or what to do afterwards.",
		FallbackKeywords: []string{"hazard", "danger", "tide", "swell", "sea level", "ocean"},
		FallbackFact:     "🌊 **Ocean Hazard Fact**: Most rip-current drownings happen on beaches without lifeguards. Check local warnings and the tide table before going in, and ask me about any specific hazard.",
	}
}

func beachTourism() DomainSpec {
	return DomainSpec{
		ID:   domain.BeachTourism,
		Name: "Beach Tourism",
		Patterns: []WeightedPattern{
			{Stems("beach", "coast", "coastal", "shore", "seaside"), 2.0},
			{Stems("tourism", "tourist", "vacation", "holiday", "travel", "visit"), 1.8},
			{Stems("swim", "surf", "dive", "diving", "snorkel"), 1.7},
			{Regex(`\b(?:resort|hotel|accommodation|stay)`), 1.2},
			{Regex(`\b(?:best|beautiful|clean|safe)\s+beach`), 1.5},
		},
		SubIntents: []SubIntent{
			{
				Name:     "safety",
				Keywords: []string{"safe", "flag", "lifeguard", "danger"},
				Response: "🚩 **Beach Safety**: Know the flag system (red = danger, yellow = caution, green = safe). Watch for changing conditions. Don't swim alone and stay between the lifeguard flags.",
			},
			{
				Name:     "planning",
				Keywords: []string{"plan", "trip", "season", "tide", "weather", "visit"},
				Response: "🗓️ **Trip Planning**: Research beach conditions beforehand. Check for seasonal hazards like jellyfish, strong currents or extreme tides, and avoid monsoon months on exposed coasts.",
			},
			{
				Name:     "conservation",
				Keywords: []string{"conserv", "wildlife", "turtle", "litter", "plastic", "clean"},
				Response: "🐢 **Beach Conservation**: Avoid disturbing wildlife and nesting sites. Don't remove shells or sand. Follow 'leave no trace' principles.",
			},
			{
				Name:     "general",
				Keywords: []string{"beach", "tour", "vacation", "holiday", "swim", "surf"},
				Response: "🏝️ **Beach Tourism Tips**: Always check weather, tides and warning flags. Swim near lifeguards. Protect yourself from sun exposure.",
			},
		},
		Default:          "I can help with beach safety information, planning advice, or conservation tips. What specifically would you like to know?",
		FollowUp:         "Do you need information about safe practices or destination planning?",
		FallbackKeywords: []string{"sand", "sun", "lifeguard", "picnic", "sunbath"},
		FallbackFact:     "🏖️ **Beach Fact**: A red flag means the water is closed to swimmers. Lifeguarded beaches have far fewer drownings, so plan your swim around patrol hours.",
	}
}

func coastalCommunities() DomainSpec {
	return DomainSpec{
		ID:   domain.CoastalCommunities,
		Name: "Coastal Communities",
		Patterns: []WeightedPattern{
			{Stems("community", "communities", "village", "town", "city", "population"), 1.5},
			{Stems("fishing", "fishermen", "fisherman", "fishery", "fisheries", "livelihood"), 2.0},
			{Stems("indigenous", "traditional", "local knowledge"), 1.8},
			{Stems("economy", "income", "employment", "jobs"), 1.4},
			{Stems("culture", "heritage", "customs", "tradition"), 1.3},
		},
		SubIntents: []SubIntent{
			{
				Name:     "resilience",
				Keywords: []string{"resilien", "knowledge", "tradition", "prepared", "warning"},
				Response: "🛡️ **Community Resilience**: Coastal communities hold traditional knowledge about ocean patterns. Many maintain evacuation plans and community early warning systems.",
			},
			{
				Name:     "economy",
				Keywords: []string{"econom", "income", "job", "employ", "livelihood", "fish"},
				Response: "🎣 **Economic Aspects**: Fishing, tourism and maritime trade are key livelihoods. Climate change and coastal hazards threaten these incomes.",
			},
			{
				Name:     "general",
				Keywords: []string{"community", "communities", "village", "town"},
				Response: "🏘️ **Coastal Communities**: These communities rely on marine resources for their livelihoods and face unique challenges from climate change and coastal hazards.",
			},
		},
		Default:          "Coastal communities have a rich cultural heritage and face specific challenges from ocean hazards. What aspect interests you?",
		FollowUp:         "Are you interested in community resilience or economic aspects?",
		FallbackKeywords: []string{"fisher", "local people", "residents", "locals"},
		FallbackFact:     "🏘️ **Community Fact**: Fishing communities often spot unusual sea behaviour first. Reporting it early through the hazard report form helps officials warn everyone else.",
	}
}

func marineTech() DomainSpec {
	return DomainSpec{
		ID:   domain.MarineTech,
		Name: "Marine Technology",
		Patterns: []WeightedPattern{
			{Regex(`\btech\b|\b(?:technolog|innovation|device|equipment)`), 1.5},
			{Stems("sensor", "monitoring", "detection", "early warning"), 2.0},
			{Regex(`\b(?:drone|uav|satellite|remote\s+sensing)`), 1.8},
			{Stems("buoy", "float", "underwater", "submarine"), 1.7},
			{Regex(`\bgis\b|\b(?:mapping|geospatial|visuali[sz]ation)`), 1.6},
		},
		SubIntents: []SubIntent{
			{
				Name:     "warning",
				Keywords: []string{"early warning", "alert", "warning"},
				Response: "⚠️ **Early Warning Systems**: These systems fuse data from seismic stations, tide gauges and buoys to send timely alerts to coastal communities.",
			},
			{
				Name:     "monitoring",
				Keywords: []string{"monitor", "sensor", "buoy", "satellite", "detect"},
				Response: "📡 **Monitoring Technology**: Tsunami buoys, seismic sensors and satellite systems detect ocean hazards early.",
			},
			{
				Name:     "innovation",
				Keywords: []string{"drone", "uav", "innovat", "remote sensing", "robot"},
				Response: "💡 **Innovations**: Drones, machine learning and remote sensing are changing how we monitor and respond to ocean hazards.",
			},
		},
		Default:          "Marine technology plays a crucial role in detecting and monitoring ocean hazards. What specific technology interests you?",
		FollowUp:         "Would you like information about monitoring systems or safety technology?",
		FallbackKeywords: []string{"radar", "gps", "app", "forecast model"},
		FallbackFact:     "📡 **Tech Fact**: Deep-ocean pressure sensors can confirm a tsunami within minutes of an undersea earthquake, long before it reaches the shore.",
	}
}

func seaRoutes() DomainSpec {
	return DomainSpec{
		ID:   domain.SeaRoutes,
		Name: "Sea Routes",
		Patterns: []WeightedPattern{
			{Stems("ship", "navigation", "navigate", "vessel", "boat"), 2.0},
			{Stems("route", "pathway", "channel", "passage"), 1.8},
			{Words("port", "ports", "harbor", "harbors", "harbour", "harbours", "dock", "docks", "marina"), 1.7},
			{Stems("trade", "commerce", "transport", "cargo"), 1.5},
			{Stems("safety at sea", "maritime safety", "navigation hazards"), 1.9},
		},
		SubIntents: []SubIntent{
			{
				Name:     "safety",
				Keywords: []string{"safety", "navigat", "gps"},
				Response: "🛳️ **Navigation Safety**: Ships use weather routing, GPS and radio communication to steer clear of hazardous conditions.",
			},
			{
				Name:     "hazards",
				Keywords: []string{"rogue", "iceberg", "storm", "hazard", "piracy"},
				Response: "🌊 **Maritime Hazards**: Storms and rogue waves pose serious risks to shipping. Modern forecasting helps vessels avoid these dangers.",
			},
			{
				Name:     "commerce",
				Keywords: []string{"trade", "cargo", "commerce", "port", "harbo"},
				Response: "📦 **Maritime Trade**: Sea routes are vital for global trade. Ports keep emergency plans for tsunamis and storms.",
			},
		},
		Default:          "Sea routes are essential for global trade but face various ocean hazards. What would you like to know?",
		FollowUp:         "Are you concerned about navigation safety or commercial shipping aspects?",
		FallbackKeywords: []string{"sail", "ferry", "cruise", "maritime", "sea"},
		FallbackFact:     "⚓ **Maritime Fact**: Small boats should return to harbour as soon as a cyclone or high-wave warning is issued; fishing bans during warnings exist for that reason.",
	}
}

func disasterManagement() DomainSpec {
	return DomainSpec{
		ID:   domain.DisasterManagement,
		Name: "Disaster Management",
		Patterns: []WeightedPattern{
			{Stems("disaster", "emergency", "catastrophe", "calamity"), 2.0},
			{Stems("management", "response", "preparedness", "planning"), 1.8},
			{Regex(`\baid\b|\b(?:evacuat|shelter|relief|rescue)`), 1.7},
			{Stems("risk assessment", "vulnerability", "resilience"), 1.6},
			{Stems("policy", "governance", "regulation", "framework"), 1.4},
		},
		SubIntents: []SubIntent{
			{
				Name:     "preparation",
				Keywords: []string{"prepar", "kit", "plan", "drill"},
				Response: "📋 **Disaster Preparedness**: Keep an evacuation plan, an emergency kit and a family communication plan ready before the season starts.",
			},
			{
				Name:     "response",
				Keywords: []string{"respon", "rescue", "evacuat", "relief", "shelter"},
				Response: "🚨 **Emergency Response**: A quick response saves lives. Follow official instructions and coordinate with local disaster response teams.",
			},
			{
				Name:     "recovery",
				Keywords: []string{"recover", "rebuild", "reconstruct"},
				Response: "🔧 **Recovery**: Rebuilding after a disaster needs community support and resilient infrastructure planning.",
			},
		},
		Default:          "Effective disaster management saves lives and reduces economic impacts. What aspect are you interested in?",
		FollowUp:         "Do you need information about preparedness, response, or recovery planning?",
		FallbackKeywords: []string{"alert", "warning", "siren", "safe zone", "kit"},
		FallbackFact:     "🚨 **Preparedness Fact**: An emergency kit should hold water, food and medicines for at least three days, plus copies of important documents in a waterproof bag.",
	}
}
