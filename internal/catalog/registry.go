package catalog

// typeDistributions lists the distribution kinds each type accepts.
// Types absent here take no distribution.
var typeDistributions = map[string][]string{
	"number":          continuousDistributions,
	"body_height":     continuousDistributions,
	"weight":          continuousDistributions,
	"bmi":             continuousDistributions,
	"betrag":          continuousDistributions,
	"attributeWeight": continuousDistributions,
	"dwelltime":       continuousDistributions,
	"length_m":        continuousDistributions,
	"loadTEU":         continuousDistributions,
	"dischargeTEU":    continuousDistributions,

	"date":     temporalDistributions,
	"time":     temporalDistributions,
	"datetime": temporalDistributions,
	"timeIn":   temporalDistributions,
	"timeOut":  temporalDistributions,
	"eta":      temporalDistributions,
	"etd":      temporalDistributions,

	"boolean":            categoricalDistributions,
	"gender":             categoricalDistributions,
	"enum":               categoricalDistributions,
	"list":               categoricalDistributions,
	"regex":              categoricalDistributions,
	"country":            categoricalDistributions,
	"state":              categoricalDistributions,
	"city":               categoricalDistributions,
	"bmi-status":         categoricalDistributions,
	"currency":           categoricalDistributions,
	"transactionType":    categoricalDistributions,
	"creditcard":         categoricalDistributions,
	"containerTyp":       categoricalDistributions,
	"attributeSize":      categoricalDistributions,
	"attributeStatus":    categoricalDistributions,
	"attributeDirection": categoricalDistributions,
	"service_route":      categoricalDistributions,

	"custom": allDistributions,
}

var useCases = []UseCase{
	{
		ID:          UseCaseGeneral,
		Label:       "Allgemeine Daten",
		Description: "Flexible Definition eigener Felder, Werte und Strukturen – ohne Domainvorgaben.",
		Icon:        "🧩",
		FieldGroups: []FieldGroup{
			{
				GroupLabel: "🔤 Primitive Datentypen",
				Fields: []FieldDef{
					{Value: "string", Label: "Text", Tooltip: "Beliebige Zeichenkette, z. B. Name, Kommentar, Beschreibung."},
					{Value: "number", Label: "Zahl", Tooltip: "Ganzzahl oder Dezimalwert, z. B. Preis, Menge oder Alter."},
					{Value: "boolean", Label: "Ja/Nein", Tooltip: "Binärer Wahrheitswert, z. B. aktiv / inaktiv."},
					{Value: "date", Label: "Datum", Tooltip: "Datum im Format TT.MM.JJJJ."},
					{Value: "time", Label: "Uhrzeit", Tooltip: "Uhrzeit im Format HH:MM:SS."},
					{Value: "datetime", Label: "Datum & Uhrzeit", Tooltip: "Zeitstempel für Ereignisse und Abläufe."},
				},
			},
			{
				GroupLabel: "🧍 Personenbezogene Daten",
				Fields: []FieldDef{
					{Value: "firstname", Label: "Vorname", Tooltip: "Vorname abhängig von der gewählten Region."},
					{Value: "lastname", Label: "Nachname", Tooltip: "Nachname abhängig von der gewählten Region."},
					{Value: "fullname", Label: "Vollständiger Name", Tooltip: "Vollständiger Name, Vor- und Nachname abhängig von der gewählten Region."},
					{Value: "gender", Label: "Geschlecht", Tooltip: "Männlich, weiblich oder divers - inkl. Abhängigkeitsverteilung."},
				},
			},
			{
				GroupLabel: "📞 Kommunikationsdaten",
				Fields: []FieldDef{
					{Value: "email", Label: "E-Mail", Tooltip: "Realistisch generierte E-Mail-Adresse anhand des Namens oder zufällig."},
					{Value: "phone", Label: "Telefonnummer", Tooltip: "Internationale oder nationale Telefonnummer im realistischen Format."},
				},
			},
			{
				GroupLabel: "🏠 Adressdaten",
				Fields: []FieldDef{
					{Value: "street", Label: "Straße", Tooltip: "Realistisch generierter Straßenname."},
					{Value: "house_number", Label: "Hausnummer", Tooltip: "Zufällige Hausnummern mit Variationen wie 12, 12A, 12–14."},
					{Value: "postcode", Label: "Postleitzahl (PLZ)", Tooltip: "Landesspezifische Postleitzahl."},
					{Value: "city", Label: "Stadt", Tooltip: "Zufällig generierte Stadt oder real existierender Ort."},
					{Value: "state", Label: "Bundesland", Tooltip: "Bundesland oder Provinz."},
					{Value: "country", Label: "Land", Tooltip: "Land aus internationaler Liste."},
					{Value: "full_address", Label: "Komplette Adresse", Tooltip: "Vollständige Adresse inklusive Straße, Nummer, PLZ, Ort und Land."},
				},
			},
			{
				GroupLabel: "📚 Kategorien & Listen",
				Fields: []FieldDef{
					{Value: "enum", Label: "Auswahlliste (Enum)", Tooltip: "Benutzerdefinierte feste Liste auswählbarer Werte."},
					{Value: "list", Label: "Liste", Tooltip: "Freie Werteliste zur zufälligen Auswahl."},
				},
			},
			{
				GroupLabel: "🔣 Musterbasierte Datentypen",
				Fields: []FieldDef{
					{
						Value:          "regex",
						Label:          "Muster (Regex)",
						Tooltip:        "Generiert Werte anhand eines Muster-Ausdrucks (Regex), z. B. AB-[0-9]{5}.",
						EditableValues: true,
						DefaultValues: []string{
							"[A-Z]{4}[0-9]{7}",
							"[A-Z0-9]{10}",
							"[A-Z]{3}-[0-9]{4}",
							"[0-9]{4}-[0-9]{4}",
							"[A-Z0-9]{5}",
							"[A-F0-9]{8}",
						},
					},
				},
			},
			{
				GroupLabel: "🆔 Identifikatoren",
				Fields: []FieldDef{
					{Value: "uuid", Label: "UUID", Tooltip: "Eindeutige universelle Identifikationsnummer."},
				},
			},
			{
				GroupLabel: "🧩 Benutzerdefiniert",
				Fields: []FieldDef{
					{Value: "custom", Label: "Eigenes Feld", Tooltip: "Komplett frei definierbarer Datentyp mit eigenen Strukturen."},
				},
			},
		},
	},
	{
		ID:          UseCaseGesundheit,
		Label:       "Gesundheitsdaten",
		Description: "Vordefinierte Gesundheitswerte (BMI, Größe, Gewicht etc.).",
		Icon:        "🏥",
		Fields: []FieldDef{
			{Value: "body_height", Label: "Körpergröße (cm)", Tooltip: "Körpergröße in Zentimetern."},
			{Value: "weight", Label: "Gewicht (kg)", Tooltip: "Körpergewicht in Kilogramm."},
			{Value: "bmi", Label: "Body-Mass-Index (BMI)", Tooltip: "Berechneter Body-Mass-Index basierend auf Größe und Gewicht. Die Felder Gewicht und Größe müssen erzeugt werden damit ein Wert für BMI zustande kommt!"},
			{Value: "bmi-status", Label: "BMI-Status", Tooltip: "Kategorisiert den BMI-Wert gemäß den WHO-Standards. Das Feld BMI muss erzeugt werden damit dieses Feld generiert werden kann!"},
		},
	},
	{
		ID:          UseCaseFinanzen,
		Label:       "Finanzdaten",
		Description: "Vordefinierte Finanz- und Zahlungswerte (Währung, Transaktionsarten, Kreditkartentypen, IBAN).",
		Icon:        "💰",
		FieldGroups: []FieldGroup{
			{
				GroupLabel: "💰 Finanzdaten",
				Fields: []FieldDef{
					{Value: "IBAN", Label: "IBAN", Tooltip: "Internationale Bankkontonummer (IBAN), z. B. DE89 3704 0044 0532 0130 00."},
					{
						Value:          "currency",
						Label:          "Währung",
						Tooltip:        "Währungscode oder -bezeichnung, z. B. EUR, USD oder CHF. Liste ist anpassbar.",
						EditableValues: true,
						DefaultValues:  []string{"EUR", "USD", "CHF", "GBP"},
					},
					{
						Value:          "transactionType",
						Label:          "Transaktionsart",
						Tooltip:        "Art der Transaktion (z. B. SEPA-Überweisung, Gehalt, Kartenzahlung). Liste kann erweitert werden.",
						EditableValues: true,
						DefaultValues: []string{
							"SEPA-Überweisung",
							"Gehalt / Lohn",
							"Karten-Zahlung (Debit)",
							"Gebühren / Kontoführungsgebühr",
							"Rückerstattung / Refund",
							"Internationale Überweisung (Swift)",
							"Online-Zahlung",
							"Mobile Payment",
							"Abonnement / Abo-Zahlung",
						},
					},
					{
						Value:          "creditcard",
						Label:          "Kreditkarte",
						Tooltip:        "Kartentyp für die Generierung von Kreditkartennummern (VISA, Mastercard, Amex...).",
						EditableValues: true,
						DefaultValues: []string{
							"VISA Karte",
							"Mastercard",
							"American Express",
							"Girocard (EC)",
							"Maestro",
						},
					},
					{Value: "betrag", Label: "Betrag", Tooltip: "Betrag in der ausgewählten Währung.", EditableValues: true},
				},
			},
		},
	},
	{
		ID:          UseCaseLogistik,
		Label:       "Logistik",
		Description: "Simulation von Containerbewegungen, Schiffsanläufen und Reedereidaten im Hafen.",
		Icon:        "🚢",
		FieldGroups: []FieldGroup{
			{
				GroupLabel: "📦 Containerdaten",
				Fields: []FieldDef{
					{Value: "unitName", Label: "Containereinheit", Tooltip: "Eindeutige Kennung der Containereinheit."},
					{
						Value:          "containerTyp",
						Label:          "Containertyp",
						Tooltip:        "Bauart des Containers (Standard, High Cube, Reefer, Open Top, Flat Rack).",
						EditableValues: true,
						DefaultValues:  []string{"Standard", "High Cube", "Reefer", "Open Top", "Flat Rack"},
					},
					{
						Value:          "attributeSize",
						Label:          "Containergröße (Fuß)",
						Tooltip:        "Standardgrößen: 20, 40, 45.",
						EditableValues: true,
						DefaultValues:  []string{"20", "40", "45"},
					},
					{Value: "attributeWeight", Label: "Containergewicht (kg)", Tooltip: "Gesamtgewicht inklusive Ladung."},
					{
						Value:          "attributeStatus",
						Label:          "Beladungsstatus",
						Tooltip:        "Leer / teilbeladen / voll beladen.",
						EditableValues: true,
						DefaultValues:  []string{"leer", "teilbeladen", "voll beladen"},
					},
					{
						Value:          "attributeDirection",
						Label:          "Transportrichtung",
						Tooltip:        "Import / Export / Transshipment.",
						EditableValues: true,
						DefaultValues:  []string{"Import", "Export", "Transshipment"},
					},
					{Value: "timeIn", Label: "Ankunftszeit im Terminal", Tooltip: "Zeitpunkt der Ankunft."},
					{Value: "timeOut", Label: "Abfahrtszeit aus dem Terminal", Tooltip: "Zeitpunkt der Abfahrt."},
					{Value: "dwelltime", Label: "Verweildauer (Stunden)", Tooltip: "Abfahrtszeit minus Ankunftszeit."},
				},
			},
			{
				GroupLabel: "🚢 Carrier- und Schiffsdaten",
				Fields: []FieldDef{
					{Value: "serviceName", Label: "Servicename", Tooltip: "Bezeichnung der Schiffslinie."},
					{
						Value:          "service_route",
						Label:          "Service-Route",
						Tooltip:        "Route des Carriers.",
						EditableValues: true,
						DefaultValues: []string{
							"Asien–Europa",
							"Europa–Nordamerika",
							"Europa–Südamerika",
							"Intra-Europa",
							"Asien–Nordamerika",
						},
					},
					{Value: "linerName", Label: "Reedereiname", Tooltip: "Name der Reederei."},
					{Value: "shipName", Label: "Schiffsname", Tooltip: "Name des Schiffes."},
					{Value: "eta", Label: "ETA (Ankunftszeit)", Tooltip: "Estimated Time of Arrival."},
					{Value: "etd", Label: "ETD (Abfahrtszeit)", Tooltip: "Estimated Time of Departure."},
					{Value: "length_m", Label: "Schiffslänge (m)", Tooltip: "Gesamtlänge des Schiffes in Metern."},
					{Value: "loadTEU", Label: "Geladene TEU", Tooltip: "Anzahl geladener TEU."},
					{Value: "dischargeTEU", Label: "Entladene TEU", Tooltip: "Anzahl entladener TEU."},
				},
			},
		},
	},
}
