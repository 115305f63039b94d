package catalog

// builtinSigns is the sign and device library shipped with the editor. Order
// matters: the catalog panel lists entries in this order.
var builtinSigns = []SignDefinition{
	{
		ID:    "W20-1",
		Name:  "ROAD WORK AHEAD (W20-1)",
		Shape: ShapeWarning,
		Glyph: `<svg viewBox="0 0 100 100" xmlns="http://www.w3.org/2000/svg"><polygon points="50,3 97,50 50,97 3,50" fill="#ff7f27" stroke="#111" stroke-width="4"/><text x="50" y="42" text-anchor="middle" font-size="14" font-family="Arial" fill="#111" font-weight="700">ROAD</text><text x="50" y="60" text-anchor="middle" font-size="14" font-family="Arial" fill="#111" font-weight="700">WORK</text><text x="50" y="78" text-anchor="middle" font-size="14" font-family="Arial" fill="#111" font-weight="700">AHEAD</text></svg>`,
	},
	{
		ID:    "W20-7a",
		Name:  "FLAGGER AHEAD (W20-7a)",
		Shape: ShapeWarning,
		Glyph: `<svg viewBox="0 0 100 100" xmlns="http://www.w3.org/2000/svg"><polygon points="50,3 97,50 50,97 3,50" fill="#ff7f27" stroke="#111" stroke-width="4"/><circle cx="35" cy="52" r="6" fill="#111"/><rect x="33" y="58" width="4" height="18" fill="#111"/><line x1="35" y1="65" x2="45" y2="75" stroke="#111" stroke-width="4"/><line x1="35" y1="65" x2="25" y2="75" stroke="#111" stroke-width="4"/><rect x="58" y="40" width="22" height="10" fill="#111"/><line x1="35" y1="58" x2="45" y2="48" stroke="#111" stroke-width="4"/></svg>`,
	},
	{
		ID:    "R2-1-45",
		Name:  "SPEED LIMIT 45 (R2-1)",
		Shape: ShapeRegulatory,
		Glyph: `<svg viewBox="0 0 100 130" xmlns="http://www.w3.org/2000/svg"><rect x="2" y="2" width="96" height="126" rx="8" ry="8" fill="#fff" stroke="#111" stroke-width="4"/><text x="50" y="38" text-anchor="middle" font-size="18" font-family="Arial" fill="#111" font-weight="700">SPEED</text><text x="50" y="58" text-anchor="middle" font-size="18" font-family="Arial" fill="#111" font-weight="700">LIMIT</text><text x="50" y="100" text-anchor="middle" font-size="46" font-family="Arial" fill="#111" font-weight="800">45</text></svg>`,
	},
	{
		ID:    "G20-2",
		Name:  "END ROAD WORK (G20-2)",
		Shape: ShapeGuide,
		Glyph: `<svg viewBox="0 0 160 70" xmlns="http://www.w3.org/2000/svg"><rect x="3" y="3" width="154" height="64" rx="6" ry="6" fill="#ff7f27" stroke="#111" stroke-width="4"/><text x="80" y="45" text-anchor="middle" font-size="28" font-family="Arial" fill="#111" font-weight="800">END ROAD WORK</text></svg>`,
	},
	{
		ID:    "W1-2",
		Name:  "CURVE AHEAD (W1-2)",
		Shape: ShapeWarning,
		Glyph: `<svg viewBox="0 0 100 100" xmlns="http://www.w3.org/2000/svg"><polygon points="50,3 97,50 50,97 3,50" fill="#ffd31a" stroke="#111" stroke-width="4"/><path d="M40 80 C55 65, 55 55, 60 45 C65 35, 72 30, 82 28" stroke="#111" stroke-width="6" fill="none"/><polygon points="80,20 92,28 80,36" fill="#111"/></svg>`,
	},
	{
		ID:    "W8-7",
		Name:  "ROUGH ROAD (W8-7)",
		Shape: ShapeWarning,
		Glyph: `<svg viewBox="0 0 100 100" xmlns="http://www.w3.org/2000/svg"><polygon points="50,3 97,50 50,97 3,50" fill="#ffd31a" stroke="#111" stroke-width="4"/><path d="M18 62 Q28 52 38 62 T58 62 T78 62" stroke="#111" stroke-width="6" fill="none"/></svg>`,
	},
	{
		ID:    "channelizer",
		Name:  "Channelizing Cone",
		Shape: ShapeDevice,
		Glyph: `<svg viewBox="0 0 60 120" xmlns="http://www.w3.org/2000/svg"><rect x="15" y="100" width="30" height="8" fill="#444"/><polygon points="30,10 45,100 15,100" fill="#ff7f27" stroke="#111" stroke-width="3"/><rect x="22" y="55" width="16" height="7" fill="#fff"/><rect x="21" y="70" width="18" height="7" fill="#fff"/></svg>`,
	},
}
