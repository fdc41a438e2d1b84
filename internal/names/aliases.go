package names

// base maps roster-report spellings seen across seasons onto one canonical
// spelling. Keys and values are upper-case with single spaces.
var base = map[string]string{
	"ANDREI KASTSITSYN":           "ANDREI KOSTITSYN",
	"AJ GREER":                    "A.J. GREER",
	"ANDREW GREENE":               "ANDY GREENE",
	"ANDREW WOZNIEWSKI":           "ANDY WOZNIEWSKI",
	"ANTHONY DEANGELO":            "TONY DEANGELO",
	"BATES (JON) BATTAGLIA":       "BATES BATTAGLIA",
	"BJ CROMBEEN":                 "B.J. CROMBEEN",
	"BRANDON CROMBEEN":            "B.J. CROMBEEN",
	"B J CROMBEEN":                "B.J. CROMBEEN",
	"BRADLEY MILLS":               "BRAD MILLS",
	"CAMERON BARKER":              "CAM BARKER",
	"COLIN (JOHN) WHITE":          "COLIN WHITE",
	"CRISTOVAL NIEVES":            "BOO NIEVES",
	"CHRIS VANDE VELDE":           "CHRIS VANDEVELDE",
	"DANNY BRIERE":                "DANIEL BRIERE",
	"DAN CLEARY":                  "DANIEL CLEARY",
	"DANNY CLEARY":                "DANIEL CLEARY",
	"DANIEL GIRARDI":              "DAN GIRARDI",
	"DANIEL CARCILLO":             "DAN CARCILLO",
	"DAVID JOHNNY ODUYA":          "JOHNNY ODUYA",
	"DAVID BOLLAND":               "DAVE BOLLAND",
	"DENIS JR GAUTHIER":           "DENIS GAUTHIER",
	"DWAYNE KING":                 "DJ KING",
	"EDWARD PURCELL":              "TEDDY PURCELL",
	"EMMANUEL FERNANDEZ":          "MANNY FERNANDEZ",
	"EMMANUEL LEGACE":             "MANNY LEGACE",
	"EVGENII DADONOV":             "EVGENY DADONOV",
	"FREDDY MODIN":                "FREDRIK MODIN",
	"FREDERICK MEYER IV":          "FREDDY MEYER",
	"HARRISON ZOLNIERCZYK":        "HARRY ZOLNIERCZYK",
	"ILJA BRYZGALOV":              "ILYA BRYZGALOV",
	"JACOB DOWELL":                "JAKE DOWELL",
	"JAMES HOWARD":                "JIMMY HOWARD",
	"JAMES VANDERMEER":            "JIM VANDERMEER",
	"JAMES WYMAN":                 "JT WYMAN",
	"JOHN HILLEN III":             "JACK HILLEN",
	"JOHN ODUYA":                  "JOHNNY ODUYA",
	"JOHN PEVERLEY":               "RICH PEVERLEY",
	"JONATHAN SIM":                "JON SIM",
	"JONATHON KALINSKI":           "JON KALINSKI",
	"JONATHAN AUDY-MARCHESSAULT":  "JONATHAN MARCHESSAULT",
	"JOSEPH CRABB":                "JOEY CRABB",
	"JOSEPH CORVO":                "JOE CORVO",
	"JOSHUA BAILEY":               "JOSH BAILEY",
	"JOSHUA HENNESSY":             "JOSH HENNESSY",
	"JOSHUA MORRISSEY":            "JOSH MORRISSEY",
	"JEAN-FRANCOIS JACQUES":       "J-F JACQUES",
	"J P DUMONT":                  "J-P DUMONT",
	"JEAN-PIERRE DUMONT":          "J-P DUMONT",
	"JT COMPHER":                  "J.T. COMPHER",
	"KRISTOPHER LETANG":           "KRIS LETANG",
	"KRYSTOFER BARCH":             "KRYS BARCH",
	"KRYSTOFER KOLANOS":           "KRYS KOLANOS",
	"MARC POULIOT":                "MARC-ANTOINE POULIOT",
	"MARTIN ST LOUIS":             "MARTIN ST. LOUIS",
	"MARTIN ST PIERRE":            "MARTIN ST. PIERRE",
	"MARTY HAVLAT":                "MARTIN HAVLAT",
	"MATTHEW CARLE":               "MATT CARLE",
	"MATHEW DUMBA":                "MATT DUMBA",
	"MATTHEW BENNING":             "MATT BENNING",
	"MATTHEW IRWIN":               "MATT IRWIN",
	"MATTHEW NIETO":               "MATT NIETO",
	"MATTHEW STAJAN":              "MATT STAJAN",
	"MAXIM MAYOROV":               "MAKSIM MAYOROV",
	"MAXIME TALBOT":               "MAX TALBOT",
	"MAXWELL REINHART":            "MAX REINHART",
	"MICHAEL BLUNDEN":             "MIKE BLUNDEN",
	"MICHAËL BOURNIVAL":           "MICHAEL BOURNIVAL",
	"MICHAEL CAMMALLERI":          "MIKE CAMMALLERI",
	"MICHAEL FERLAND":             "MICHEAL FERLAND",
	"MICHAEL GRIER":               "MIKE GRIER",
	"MICHAEL KNUBLE":              "MIKE KNUBLE",
	"MICHAEL KOMISAREK":           "MIKE KOMISAREK",
	"MICHAEL MATHESON":            "MIKE MATHESON",
	"MICHAEL MODANO":              "MIKE MODANO",
	"MICHAEL RUPP":                "MIKE RUPP",
	"MICHAEL SANTORELLI":          "MIKE SANTORELLI",
	"MICHAEL SILLINGER":           "MIKE SILLINGER",
	"MITCHELL MARNER":             "MITCH MARNER",
	"NATHAN GUENIN":               "NATE GUENIN",
	"NICHOLAS BOYNTON":            "NICK BOYNTON",
	"NICHOLAS DRAZENOVIC":         "NICK DRAZENOVIC",
	"NICKLAS BERGFORS":            "NICLAS BERGFORS",
	"NICKLAS GROSSMAN":            "NICKLAS GROSSMANN",
	"NICOLAS PETAN":               "NIC PETAN",
	"NIKLAS KRONVALL":             "NIKLAS KRONWALL",
	"NIKOLAI ANTROPOV":            "NIK ANTROPOV",
	"NIKOLAI KULEMIN":             "NIKOLAY KULEMIN",
	"NIKOLAI ZHERDEV":             "NIKOLAY ZHERDEV",
	"OLIVIER MAGNAN-GRENIER":      "OLIVIER MAGNAN",
	"PAT MAROON":                  "PATRICK MAROON",
	"P. J. AXELSSON":              "P.J. AXELSSON",
	"PER JOHAN AXELSSON":          "P.J. AXELSSON",
	"PK SUBBAN":                   "P.K. SUBBAN",
	"P.K SUBBAN":                  "P.K. SUBBAN",
	"PIERRE PARENTEAU":            "P A PARENTEAU",
	"PIERRE-ALEX PARENTEAU":       "P A PARENTEAU",
	"PA PARENTEAU":                "P A PARENTEAU",
	"P.A PARENTEAU":               "P A PARENTEAU",
	"P-A PARENTEAU":               "P A PARENTEAU",
	"PHILIP VARONE":               "PHIL VARONE",
	"QUINTIN HUGHES":              "QUINN HUGHES",
	"RAYMOND MACIAS":              "RAY MACIAS",
	"RJ UMBERGER":                 "R.J. UMBERGER",
	"ROBERT BLAKE":                "ROB BLAKE",
	"ROBERT EARL":                 "ROBBIE EARL",
	"ROBERT HOLIK":                "BOBBY HOLIK",
	"ROBERT SCUDERI":              "ROB SCUDERI",
	"RODNEY PELLEY":               "ROD PELLEY",
	"SIARHEI KASTSITSYN":          "SERGEI KOSTITSYN",
	"SIMEON VARLAMOV":             "SEMYON VARLAMOV",
	"STAFFAN KRONVALL":            "STAFFAN KRONWALL",
	"STEVEN REINPRECHT":           "STEVE REINPRECHT",
	"TJ GALIARDI":                 "T.J. GALIARDI",
	"TJ HENSICK":                  "T.J HENSICK",
	"TJ OSHIE":                    "T.J. OSHIE",
	"T.J OSHIE":                   "T.J. OSHIE",
	"TOBY ENSTROM":                "TOBIAS ENSTROM",
	"TOMMY SESTITO":               "TOM SESTITO",
	"VACLAV PROSPAL":              "VINNY PROSPAL",
	"VINCENT HINOSTROZA":          "VINNIE HINOSTROZA",
	"WILLIAM THOMAS":              "BILL THOMAS",
	"ZACHARY ASTON-REESE":         "ZACH ASTON-REESE",
	"ZACHARY SANFORD":             "ZACH SANFORD",
	"ZACHERY STORTINI":            "ZACK STORTINI",
	"MATTHEW MURRAY":              "MATT MURRAY",
	"J-SEBASTIEN AUBIN":           "JEAN-SEBASTIEN AUBIN",
	"J.F. BERUBE":                 "J-F BERUBE",
	"JEAN-FRANCOIS BERUBE":        "J-F BERUBE",
	"JEFF DROUIN-DESLAURIERS":     "JEFF DESLAURIERS",
	"NICHOLAS BAPTISTE":           "NICK BAPTISTE",
	"OLAF KOLZIG":                 "OLIE KOLZIG",
	"STEPHEN VALIQUETTE":          "STEVE VALIQUETTE",
	"THOMAS MCCOLLUM":             "TOM MCCOLLUM",
	"TIMOTHY JR THOMAS":           "TIM THOMAS",
	"TIM GETTINGER":               "TIMOTHY GETTINGER",
	"NICHOLAS SHORE":              "NICK SHORE",
	"T.J TYNAN":                   "TJ TYNAN",
	"T.J. TYNAN":                  "TJ TYNAN",
	"ALEXIS LAFRENI?RE":           "ALEXIS LAFRENIÈRE",
	"ALEXIS LAFRENIERE":           "ALEXIS LAFRENIÈRE",
	"ALEXIS LAFRENIÃRE":           "ALEXIS LAFRENIÈRE",
	"TIM STUTZLE":                 "TIM STÜTZLE",
	"TIM ST?TZLE":                 "TIM STÜTZLE",
	"TIM STÃTZLE":                 "TIM STÜTZLE",
	"EGOR SHARANGOVICH":           "YEGOR SHARANGOVICH",
	"CALLAN FOOTE":                "CAL FOOTE",
	"MATTIAS JANMARK-NYLEN":       "MATTIAS JANMARK",
	"JOSH DUNNE":                  "JOSHUA DUNNE",
}

// overlays hold spellings only one feed produces.
var overlays = map[Source]map[string]string{
	SourceAPI: {
		"ALEX PECHURSKIY":  "ALEX PECHURSKI",
		"BEN ONDRUS":       "BENJAMIN ONDRUS",
		"CAL PETERSEN":     "CALVIN PETERSEN",
		"ILYA ZUBOV":       "ILJA ZUBOV",
		"JIM DOWD":         "JAMES DOWD",
		"JEFF HAMILTON":    "JEFFREY HAMILTON",
		"JEFF PENNER":      "JEFFREY PENNER",
		"MIKE VERNACE":     "MICHAEL VERNACE",
		"MIKE YORK":        "MICHAEL YORK",
		"ZACK FITZGERALD":  "ZACH FITZGERALD",
		"P.A. PARENTEAU":   "P A PARENTEAU",
	},
	SourceSite: {
		"J T COMPHER":          "J.T. COMPHER",
		"J T MILLER":           "J.T. MILLER",
		"T J OSHIE":            "T.J. OSHIE",
		"ALEXIS LAFRENI RE":    "ALEXIS LAFRENIÈRE",
		"TIM ST TZLE":          "TIM STÜTZLE",
		"T.J. BRODIE":          "TJ BRODIE",
		"STEVE KAMPFER":        "STEVEN KAMPFER",
		"JEFFREY TRUCHON-VIEL": "JEFFREY VIEL",
		"ZACHARY JONES":        "ZAC JONES",
		"P K SUBBAN":           "P.K. SUBBAN",
		"MAXIME COMTOIS":       "MAX COMTOIS",
		"NICHOLAS CAAMANO":     "NICK CAAMANO",
		"DAVE STECKEL":         "DAVID STECKEL",
		"JIM DOWD":             "JAMES DOWD",
		"MIKE ZIGOMANIS":       "MICHAEL ZIGOMANIS",
		"MIKE YORK":            "MICHAEL YORK",
		"ALEXEI KOVALEV":       "ALEX KOVALEV",
		"SLAVA KOZLOV":         "VYACHESLAV KOZLOV",
		"JEFF HAMILTON":        "JEFFREY HAMILTON",
		"JOHNNY POHL":          "JOHN POHL",
		"J.P. DUMONT":          "J-P DUMONT",
		"DOUG MURRAY":          "DOUGLAS MURRAY",
		"RICH PEVERLY":         "RICH PEVERLEY",
	},
}

// teamScoped separates players who share a name, keyed by canonical team.
var teamScoped = map[string]map[string]string{
	"NEW YORK ISLANDERS": {
		"SEBASTIAN AHO": "SEBASTIAN AHO (SWE)",
	},
}

var teams = map[string]string{
	"CANADIENS MONTREAL": "MONTREAL CANADIENS",
	"ATLANTA THRASHERS":  "WINNIPEG JETS",
	"PHOENIX COYOTES":    "ARIZONA COYOTES",
	"ST LOUIS BLUES":     "ST. LOUIS BLUES",
}
