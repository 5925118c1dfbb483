package registry

// Curated reference data. Entries are matched after normalization, so accent
// and punctuation variants of the same name collapse into one term.

// Licensed high-cost credit merchants (Office de la protection du consommateur du Québec permit register).
var officialLenders = []string{
	"3IEMECHANCE.CA", "500 PREFERENTIEL", "500 PRÉFÉRENTIEL", "955PRET.CA", "955PRÊT.CA",
	"ACCORD", "ADVANCE CREDIT", "ADVANCE CREDIT TM", "AGENCE DE RECOUVREMENT FINA",
	"AIDE PRETS", "AIDE PRÊTS", "AIM FINANCE", "ALEZA", "ALLER CINQ CENT", "ALTERFINA",
	"AQUA SERVICES", "ARGENT COMPTANT KOBCASH", "ARGENT MAGIK", "ARGENT RAPIDE 911",
	"ASTRAL FINANCE", "AUTO 60 MINUTES", "AUTO DUROCHER", "AUTOMOBILE VISION", "BELABRI",
	"BESOINARGENTENLIGNE.COM", "BODDI DESIGN", "BOITE COMPTANT", "BOITE DE PRET",
	"BOÎTE COMPTANT", "BOÎTE DE PRÊT", "CAN FINANCE", "CAN FINANCE OPTION",
	"CAN FINANCE PLUS", "CAN FINANCE SOLUTION", "CANADA FINANCE PLUS",
	"CANADA FINANCE SOLUTION", "CAPITAL LENDCARE", "CARREFOUR AUTOMOBILES RIVE-NORD",
	"CASH COWBOY 500", "CENTRE DE COLLISION RIVE-NORD", "CHOMEDEY HYUNDAI",
	"CONSULTATIONSIMPLE", "CORPORATION CREDIT MEDICAL", "CREDIT COURTAGE", "CREDIT MEDICAL",
	"CREDIT PRIVILEGE", "CREDIT STATION", "CREDIT TOLEDO", "CREDITFINA", "CREDITMATIK",
	"CREDIKA", "CRÉDIT MÉDICAL", "CRÉDIT PRIVILÈGE", "CRÉDIT TOLEDO", "CRÉDITFINA",
	"CRÉDIKA", "DELTAFINA", "DEMANDE DE PRET", "DEMANDE DE PRÊT", "DEPOTRAPIDE.CA",
	"DONOVAN", "DONOVAN FINANCIAL SERVICES", "EASYCONSULTING", "EASYFINANCIAL",
	"EASYFINANCIERE", "EASYFINANCIÈRE", "EDEN PARK", "EDEN PARK MC", "EDENPARK",
	"EDENPARK MC", "EMPRUNTRAPIDE.COM", "ENTREPOT AUTO DUROCHER", "ENTREPÔT AUTO DUROCHER",
	"EQUIPRET SOLUTION", "ÉQUIPRÊT SOLUTION", "EST OUEST CREDIT", "EST OUEST CRÉDIT",
	"EVASION SPORT", "EXPRESS PAYDAY LOAN", "FAIRSTONE", "FAIRSTONE FINANCIAL",
	"FAIRSTONE FINANCIERE", "FAIRSTONE FINANCIÈRE", "FASTCASH 911", "FASTFORLOAN",
	"FINANCE 24", "FINANCE RENTUGO", "FINANCEMENTAT 116", "FINANCEMENT A MA FACON",
	"FINANCEMENT AUTO 60 MINUTES", "FINANCEMENT EDEN PARK", "FINANCEMENT EDENPARK",
	"FINANCEMENT ET CREDIT RIVE-SUD", "FINANCEMENT ET CRÉDIT RIVE-SUD",
	"FINANCEMENT FIDELE", "FINANCEMENT FIDÈLE", "FINANCEMENT NCR", "FINANCEMENT PREFERA",
	"FINANCEMENT À MA FAÇON", "FINANCIER DE GRANDE HAUTEUR", "FINANCIER HUARD",
	"FINANCIERE SPRINT", "FINANCIERE TRITAN", "FINANCIERS J.P.", "FINANCIÈRE NORTHLAKE",
	"FINANCIÈRE SPRINT", "FINANCIÈRE TRITAN", "FINACAPITALE", "FINART CAPITAL",
	"FIRST STOP LOANS", "FLASH LOAN", "FLASH SELECTION", "FLASH SÉLECTION", "FLEX PAY",
	"FLEXITI", "FLEXITI FINANCIAL", "FLEXITI FINANCIERE", "FLEXITI FINANCIÈRE", "FS PRET",
	"FS PRÊT", "GERVAIS AUTO", "GESTION ASC", "GESTION DE GESTION HEYDAY", "GESTION FLF",
	"GESTION HEYDAY", "GESTION INVESTISSEMENTS CALI", "GESTION JETTE LEMAY", "GESTION JKR",
	"GESTION MULTI-FINANCE", "GESTION OLLA", "GESTION PPA", "GLOBAL IR COMMUNICATIONS",
	"GO CREDIT", "GO CRÉDIT", "GOEASY", "GOFIVEHUNDRED", "GRANBY TOYOTA",
	"GROUPE ACCES RAPIDE", "GROUPE ACCÈS RAPIDE", "GROUPE ARBRE D'ARGENT",
	"GROUPE DE GESTION HEYDAY", "GROUPE DMF", "GROUPE EN DEMANDE", "GROUPE FINEXA",
	"GROUPE FIODIH", "GROUPE INSTA 500", "GROUPE LIBERTE", "GROUPE LIBERTÉ",
	"GROUPE PSP XPRESS", "GROUPE SCF", "GROUPE WB", "GURU CAPITAL", "H. GREGOIRE SAGUENAY",
	"H. GRÉGOIRE SAGUENAY", "H.T. TREMBLAY", "HAUTE LIBERTE FINANCES",
	"HAUTE LIBERTÉ FINANCES", "HC FINANCES", "HEROS DU JOUR DE PAIE", "HEROS PAYANT",
	"HEYDAY", "HIGH LIBERTY FINANCES", "HIGH RISE FINANCIAL", "HÉROS DU JOUR DE PAIE",
	"HÉROS PAYANT", "IA AUTO FINANCE", "IA FINANCEMENT AUTO", "ICEBERG FINANCE",
	"IFINANCE CANADA", "INFINITY LOANS", "INSTA 500", "INSTA CHEQUES", "INSTA-CHEQUES",
	"INSTANT AUTO CREDIT", "INSTANT AUTO CRÉDIT", "INSTANT LOANS CASH",
	"INVESTISSEMENTS SENNEVILLE", "J.P. FINANCIAL", "J.P. FINANCIAL SERVICES",
	"JOHNSON HEALTH TECHNOLOGIES CANADA COMMERCIAL", "KIA QUEBEC", "KIA QUÉBEC",
	"KIA SAINTE-FOY", "KIA STE-FOY", "KIA VAL-BELAIR", "KIA VAL-BÉLAIR", "KREDIT PRET",
	"KRÉDIT PRÊT", "LENDCARE CAPITAL", "LENDORA", "LENDORADO SERVICES",
	"LES INVESTISSEMENTS SENNEVILLE", "LES PLACEMENTS JC.D.A.", "LES PLACEMENTS JEANCLO",
	"LES SERVICES LENDORADO", "LES SERVICES RAPIDOLOAN", "LES SOLUTIONS PRETEURS",
	"LES SOLUTIONS PRÊTEURS", "LES TECHNOLOGIES JOHNSON HEALTH CANADA COMMERCIAL",
	"LM CREDIT", "LM CRÉDIT", "LOAN CLICK", "LOANS 500", "LOCATION MIRAGE",
	"LOCATION RICHELIEU", "LOONIE FINANCIAL", "MANUFACTURE DE BIJOUX UNIQUE",
	"MARKETING QUICKNEASY", "MDG FINANCIAL", "MDG FINANCIER", "MICROSPRETS.CA", "MINICASH",
	"MINIARGENT", "MON ARGENT COMPTANT", "MON TEMPS SOLDE SERVICE FINANCIER", "MONEY MART",
	"MONEY TREE GROUP", "MONTESTRIE AUTORAMA", "MY CASH PAY", "MY WAY FINANCING",
	"NATIONAL MONEY MART", "NCR FINANCE", "NCR FINANCIAL", "NCR FINANCIAL SERVICES",
	"NCR FINANCING", "NCR LOANS", "NORTHLAKE FINANCIAL", "NOVAARGENT", "NOVACASH", "NOVILO",
	"NOVILO FINANCE", "OBJECTIF FINANCE", "OCCASION PRILO", "OCCASION RIVE-NORD",
	"OCCASION SANS LIMITE", "OCCASION VILLE DE LONGUEUIL", "OCCASION VILLE DE QUEBEC",
	"OCCASION VILLE DE QUÉBEC", "PAIE FLEX", "PAIE PAR MOIS", "PAY HERO", "PAY MONTHLY",
	"PAYDAY HERO", "PETITSPRETS.CA", "PETITSPRÊTS.CA", "PLACEMENTS JC.D.A.",
	"PLACEMENTS JEANCLO", "PREFERA FINANCE", "PRET ALTERNATIF", "PRET BONNE VIE",
	"PRET CAPITAL", "PRET CLICK", "PRET ECLAIR", "PRET FORMULA", "PRET HEBDO",
	"PRET INTELLIGENT", "PRET MAGIQUE", "PRET MONARQUE", "PRET OLYMPIQUE",
	"PRET PAS PRET J'Y VAIS", "PRET POUR AIDER", "PRET PREMIER ARRET", "PRET QC",
	"PRET RAPIDE 247", "PRET RAPIDE MAB", "PRET SUR PAYE NATIONAL",
	"PRET SUR SALAIRE EXPRESS", "PRETEXTRA", "PRETHEURE", "PRETINTELLIGENT500", "PRETS 500",
	"PRETS INFINITY", "PRETS INSTANTANES CASH", "PRETS NCR", "PRETS QUICKY", "PRETS RAPIDO",
	"PRETSARGENT.COM", "PRETXTRA.CA", "PRETXTRA.COM", "PRILO OCCASION", "PRIME 500",
	"PRÊT ALTERNATIF", "PRÊT BONNE VIE", "PRÊT CAPITAL", "PRÊT CLICK", "PRÊT FORMULA",
	"PRÊT HEBDO", "PRÊT INTELLIGENT", "PRÊT MAGIQUE", "PRÊT MONARQUE", "PRÊT OLYMPIQUE",
	"PRÊT PAS PRÊT J'Y VAIS", "PRÊT POUR AIDER", "PRÊT PREMIER ARRÊT", "PRÊT QC",
	"PRÊT RAPIDE 247", "PRÊT RAPIDE MAB", "PRÊT SUR PAYE NATIONAL",
	"PRÊT SUR SALAIRE EXPRESS", "PRÊT ÉCLAIR", "PRÊTEXTRA", "PRÊTHEURE",
	"PRÊTINTELLIGENT500", "PRÊTPERSONNEL.CO", "PRÊTS 500", "PRÊTS INFINITY",
	"PRÊTS INSTANTANÉS CASH", "PRÊTS NCR", "PRÊTS QUICKY", "PRÊTS RAPIDO",
	"PROBLEMEARGENT.COM", "PUROMOBILE", "PUROPAIEMENT", "QUEBEC AUTO FINANCE",
	"QUÉBEC AUTO FINANCE", "QUICKFUND SOLUTION", "QUICKLOANS", "QUICKNEASY MARKETING",
	"QUICKY LOANS", "RAPIDOLOAN", "RAPIDOPRET", "RAPIDOPRÊT", "RENTUGO FINANCE",
	"RH HOLDING", "ROI RAPIDE", "ROYAL", "SCOOBY", "SERVICE DE FINANCEMENT ASTRAL FINANCE",
	"SERVICE RAPIDE", "SERVICES FINANCIERS 57", "SERVICES FINANCIERS DONOVAN",
	"SERVICES FINANCIERS ESNAT", "SERVICES FINANCIERS J.P.", "SERVICES FINANCIERS KPS",
	"SERVICES FINANCIERS NCR", "SMARTCASH500", "SOIN PRET", "SOIN PRÊT", "SOLIDEX LOANS",
	"SOLIDEX PRETS", "SOLIDEX PRÊTS", "SOLUTION CREDIT FINANCE", "SOLUTION CRÉDIT FINANCE",
	"SOLUTION DE FINANCEMENT RAPIDE", "SOLUTIONS ALTERFINA", "SOLUTIONS COMPTANT",
	"SPECIALISTEDUPRET.COM", "SPECIALISTEMICROPRET.CA", "SPECIALISTES DU PRET RAPIDE",
	"SPÉCIALISTES DU PRÊT RAPIDE", "SPEEDY KING", "SPRINT FINANCIAL", "STALK CAROLYN",
	"STATION CREDIT", "STATION CRÉDIT", "SUBARU BOISBRIAND", "SUBARU RIVE-NORD",
	"SYSTEME DASH", "SYSTÈME DASH", "THE LENDERS SOLUTIONS", "TOLEDO CREDIT",
	"TRITAN FINANCIAL", "UNIQUE JEWELLERY MANUFACTURING", "UPLIFT",
	"UPLIFT CANADA SERVICES", "VIACASH", "VISION AUTOMOBILE", "VITOPRET", "VITÔPRET",
	"VOODOO",
}

// Unlicensed, online and buy-now-pay-later lenders seen in client files.
var supplementaryLenders = []string{
	"NEO CAPITAL", "NEOCAPITAL", "CAPITAL NEO", "GESTION CRL", "COBALT", "PRETURGENT",
	"CREDIT SECOURS", "CREDIT MAX", "PRET RAPIDE", "ARGENT RAPIDE", "CASH MONEY",
	"CASH 4 YOU", "DMO CREDIT", "PRET DIRECT", "514 LOANS", "COURTIERS DU QUEBEC",
	"SPEEDY CASH", "AFTERPAY", "KLARNA", "SEZZLE", "PAYBRIGHT", "PAYPAL CREDIT", "AFFIRM",
	"PROGRESSIVE LEASING", "CAPITAL ONE", "OPPLOANS", "AVANT", "LENDINGCLUB", "PROSPER",
	"UPGRADE", "BEST EGG", "SOFI", "SPRING FINANCIAL", "CREDITFRESH", "LENDIRECT", "MOGO",
	"ICASH", "LOAN EXPRESS", "INSTALOANS", "RADIUS FINANCIAL", "ECLIPSE FINANCIAL",
	"MORTGAGE INTELLIGENCE", "4 PILLARS", "BERNIER ET ASSOCIES",
}

var insurers = []string{
	"BENEVA", "DESJARDINS ASSURANCE", "INDUSTRIELLE ALLIANCE", "LA CAPITALE", "SSQ",
	"LA PERSONNELLE", "L'UNIQUE", "INTACT", "AVIVA", "COOPERATORS", "WAWANESA", "RSA",
	"ECONOMICAL", "PEMBRIDGE", "PAFCO", "MANULIFE", "SUN LIFE", "CANADA VIE",
	"RBC ASSURANCE", "BMO ASSURANCE", "EMPIRE VIE", "HUMANIA", "ASSOMPTION VIE",
	"PLAN DE PROTECTION", "FORESTERS", "EQUITABLE", "PRIMERICA", "BELAIR", "OPTIMUM",
	"PROMUTUEL", "PRYSM", "UNICA", "ALLSTATE", "STATE FARM", "TRAVELERS",
	"SCOTIA ASSURANCE", "TD ASSURANCE", "CIBC ASSURANCE", "AXA", "ALLIANZ", "CHUBB",
	"ZURICH", "AIG", "LIBERTY MUTUAL", "ARCH", "SOMPO", "GENERALI", "SAGEN", "GENWORTH",
	"CMHC", "ASSURANT", "CARDIF", "CROIX BLEUE", "MEDAVIE", "TUGO", "FCT INSURANCE",
	"TITLEPLUS",
}

// Licensed insolvency trustees and bankruptcy terms.
var trustees = []string{
	"MNP", "BDO", "KPMG", "JEAN FORTIN", "PIERRE ROY", "RAYMOND CHABOT", "RICHTER",
	"SAMSON BELAIR", "LEMIEUX NOLET", "BERNIER ET ASSOCIES", "BRESSE", "MALLETTE",
	"GINSBERG GINGRAS", "THIBAULT VAN HOUTTE", "ALAIN MENARD", "ANDRE LACOMBE",
	"BOUCHARD ET ASSOCIES", "CLAUDE HOUDE", "D TANNENBAUM", "FRANCOIS BERTRAND",
	"GILLES ROBILLARD", "GROUPE SERPONE", "HOULE MARCIL", "J AUCLAIR SYNDIC", "LAPORTE CPA",
	"MARTIN DESCHAMBAULT", "NATHALIE DION", "PELLETIER ASSOCIES", "SOLUTIONS 4 PILLARS",
	"SYNDIC", "SYNDIC AUTORISE", "TRUSTEE", "SAI", "LIT", "LICENSED INSOLVENCY TRUSTEE",
	"FAILLITE", "BANKRUPTCY", "PROPOSITION CONSOMMATEUR", "CONSUMER PROPOSAL", "INSOLVENCY",
	"INSOLVABILITE",
}

var casinos = []string{
	"GIGADAT", "LOTO QUEBEC", "ESPACEJEUX", "MISE-O-JEU", "KINZO", "CASINO MONTREAL",
	"CASINO GATINEAU", "CASINO CHARLEVOIX", "POKER", "POKERSTARS", "BET365", "BETWAY",
	"UNIBET", "888CASINO", "JACKPOT", "SPIN CASINO", "ROYAL VEGAS", "LOTTERY", "POWERBALL",
	"MEGAMILLIONS", "LOTTO MAX", "LOTTO 649",
}

// Everyday merchants, utilities and subscriptions.
var merchants = []string{
	"TIM HORTONS", "MCDONALD", "BURGER KING", "SUBWAY", "A&W", "WENDY", "KFC", "PIZZA",
	"STARBUCKS", "WALMART", "COSTCO", "CANADIAN TIRE", "RONA", "LOWE'S", "HOME DEPOT",
	"DOLLARAMA", "JEAN COUTU", "PHARMAPRIX", "IGA", "METRO", "SUPER C", "MAXI", "PROVIGO",
	"COUCHE-TARD", "SHELL", "PETRO-CANADA", "ESSO", "ULTRAMAR", "IRVING", "HUSKY",
	"HYDRO QUEBEC", "BELL", "ROGERS", "TELUS", "VIDEOTRON", "FIDO", "KOODO",
	"VIRGIN MOBILE", "COGECO", "SAAQ", "REVENU QUEBEC", "CRA", "NETFLIX", "SPOTIFY",
	"DISNEY+", "AMAZON PRIME", "APPLE TV", "YOUTUBE", "CRAVE", "CLUB ILLICO",
}
