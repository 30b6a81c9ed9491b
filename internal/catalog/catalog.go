// Package catalog holds the fixed per-exam-type templates a clinician
// starts from: normal-findings text, default impression, and the quick
// abnormal-finding tiles.
package catalog

// ExamType identifies one of the supported ultrasound exams.
type ExamType string

const (
	ExamAbdominal            ExamType = "abdominal"
	ExamLiver                ExamType = "liver"
	ExamSmallLargeBowel      ExamType = "small_large_bowel"
	ExamLimited              ExamType = "limited"
	ExamNeonateSpine         ExamType = "neonate_spine"
	ExamNeonateBrain         ExamType = "neonate_brain"
	ExamNeck                 ExamType = "neck"
	ExamThyroid              ExamType = "thyroid"
	ExamFemalePelvis         ExamType = "female_pelvis"
	ExamAdrenalKidneyBladder ExamType = "adrenal_kidney_bladder"
	ExamIHPS                 ExamType = "ihps"
)

// Tile is one selectable abnormal finding with its report sentence.
type Tile struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Entry is the full template set for one exam type.
type Entry struct {
	Type              ExamType `json:"type"`
	Label             string   `json:"label"`
	NormalFindings    string   `json:"normalFindings"`
	DefaultImpression string   `json:"defaultImpression"`
	AbnormalTiles     []Tile   `json:"abnormalTiles"`
}

// Types lists the exam types in display order.
var Types = []ExamType{
	ExamAbdominal,
	ExamLiver,
	ExamSmallLargeBowel,
	ExamLimited,
	ExamNeonateSpine,
	ExamNeonateBrain,
	ExamNeck,
	ExamThyroid,
	ExamFemalePelvis,
	ExamAdrenalKidneyBladder,
	ExamIHPS,
}

var labels = map[ExamType]string{
	ExamAbdominal:            "복부초음파",
	ExamLiver:                "간초음파",
	ExamSmallLargeBowel:      "소장-대장 초음파",
	ExamLimited:              "단순초음파",
	ExamNeonateSpine:         "신생아 척수초음파",
	ExamNeonateBrain:         "신생아 뇌초음파",
	ExamNeck:                 "경부 초음파",
	ExamThyroid:              "갑상선 초음파",
	ExamFemalePelvis:         "여성 생식기 (난소, 자궁) 초음파",
	ExamAdrenalKidneyBladder: "부신-신장-방광 초음파",
	ExamIHPS:                 "IHPS 초음파",
}

var normalFindings = map[ExamType]string{
	ExamAbdominal:            "Liver normal in size and echogenicity without focal lesion. Gallbladder unremarkable; no stone or wall thickening. Intra/extrahepatic bile ducts not dilated. Pancreas and spleen unremarkable. Both kidneys normal in size without hydronephrosis. Urinary bladder unremarkable. No ascites.",
	ExamLiver:                "Liver normal in size and echogenicity without focal lesion. Portal/hepatic veins patent. Gallbladder unremarkable. Intra/extrahepatic bile ducts not dilated. No perihepatic fluid.",
	ExamSmallLargeBowel:      "No abnormal bowel wall thickening. No pathologic hyperemia. No intussusception identified. Appendix not visualized or appears within normal limits when seen. No free fluid. No significant mesenteric lymphadenopathy.",
	ExamLimited:              "Targeted ultrasound of the requested area demonstrates no focal fluid collection or discrete mass. No abnormal hyperemia. Findings are within expected limits for the limited exam.",
	ExamNeonateSpine:         "Conus medullaris terminates at an appropriate level. Filum terminale not thickened. Central canal not dilated. No intraspinal mass or dermal sinus tract. No evidence of tethering on this exam.",
	ExamNeonateBrain:         "Ventricular size within normal limits. No germinal matrix/intraventricular hemorrhage. No periventricular echogenicity to suggest leukomalacia. Midline structures are intact. No extra-axial fluid collection.",
	ExamNeck:                 "No suspicious cervical mass. Thyroid bed and major salivary glands appear unremarkable on this limited neck assessment. No pathologic lymphadenopathy. No focal fluid collection.",
	ExamThyroid:              "Thyroid gland normal in size and echotexture. No discrete thyroid nodule. No suspicious cervical lymphadenopathy.",
	ExamFemalePelvis:         "Uterus and ovaries demonstrate age-appropriate appearance. No adnexal mass. No sonographic evidence of torsion. No free pelvic fluid.",
	ExamAdrenalKidneyBladder: "Adrenal glands without focal mass. Both kidneys normal in size without hydronephrosis. No focal renal lesion. Urinary bladder unremarkable without wall thickening or debris.",
	ExamIHPS:                 "Pylorus without abnormal muscle thickening or elongation. Gastric contents pass through the pyloric channel during the exam. No secondary signs of gastric outlet obstruction.",
}

var defaultImpressions = map[ExamType]string{
	ExamAbdominal:            "Unremarkable abdominal ultrasound.",
	ExamLiver:                "Unremarkable liver ultrasound.",
	ExamSmallLargeBowel:      "No sonographic evidence of acute inflammatory bowel process on this exam.",
	ExamLimited:              "No focal abnormality identified on this limited ultrasound exam.",
	ExamNeonateSpine:         "No sonographic evidence of spinal dysraphism or tethered cord on this exam.",
	ExamNeonateBrain:         "No sonographic evidence of intracranial hemorrhage or ventriculomegaly on this exam.",
	ExamNeck:                 "No focal neck abnormality identified on this exam.",
	ExamThyroid:              "Unremarkable thyroid ultrasound.",
	ExamFemalePelvis:         "Unremarkable pelvic ultrasound.",
	ExamAdrenalKidneyBladder: "Unremarkable adrenal, renal, and bladder ultrasound.",
	ExamIHPS:                 "No sonographic evidence of hypertrophic pyloric stenosis.",
}

var abnormalTiles = map[ExamType][]Tile{
	ExamAbdominal: {
		{ID: "hepatomegaly", Title: "Hepatomegaly", Text: "Liver appears enlarged for age."},
		{ID: "fatty_liver", Title: "Increased echogenicity", Text: "Diffuse increased hepatic echogenicity."},
		{ID: "gb_sludge", Title: "Gallbladder sludge", Text: "Echogenic sludge is noted in the gallbladder."},
		{ID: "bile_duct_dilation", Title: "Bile duct dilatation", Text: "Bile ducts appear dilated."},
		{ID: "hydronephrosis", Title: "Hydronephrosis", Text: "Hydronephrosis is present."},
		{ID: "free_fluid", Title: "Free fluid", Text: "Small amount of free intraperitoneal fluid is noted."},
		{ID: "splenomegaly", Title: "Splenomegaly", Text: "Spleen appears enlarged for age."},
	},
	ExamLiver: {
		{ID: "hepatomegaly", Title: "Hepatomegaly", Text: "Liver appears enlarged for age."},
		{ID: "steatosis", Title: "Increased echogenicity", Text: "Diffuse increased hepatic echogenicity."},
		{ID: "focal_lesion", Title: "Focal lesion", Text: "A focal hepatic lesion is identified; further characterization is recommended."},
		{ID: "periportal", Title: "Periportal echogenicity", Text: "Increased periportal echogenicity is noted."},
		{ID: "gb_wall", Title: "GB wall thickening", Text: "Gallbladder wall appears thickened."},
		{ID: "bile_duct_dilation", Title: "Bile duct dilatation", Text: "Bile ducts appear dilated."},
		{ID: "perihepatic_fluid", Title: "Perihepatic fluid", Text: "Perihepatic free fluid is present."},
	},
	ExamSmallLargeBowel: {
		{ID: "wall_thick", Title: "Wall thickening", Text: "Segmental bowel wall thickening is noted."},
		{ID: "hyperemia", Title: "Hyperemia", Text: "Increased mural vascularity is present on Doppler."},
		{ID: "intussusception", Title: "Intussusception", Text: "Findings are compatible with intussusception."},
		{ID: "appendicitis", Title: "Appendicitis", Text: "Findings are suspicious for acute appendicitis."},
		{ID: "nodes", Title: "Mesenteric nodes", Text: "Prominent mesenteric lymph nodes are noted."},
		{ID: "free_fluid", Title: "Free fluid", Text: "Free fluid is present."},
		{ID: "dilated_loops", Title: "Dilated loops", Text: "Fluid-filled dilated bowel loops are noted."},
	},
	ExamLimited: {
		{ID: "fluid", Title: "Fluid collection", Text: "A focal fluid collection is identified."},
		{ID: "abscess", Title: "Abscess", Text: "Complex fluid collection is suspicious for abscess."},
		{ID: "mass", Title: "Mass", Text: "A discrete solid mass is identified."},
		{ID: "hematoma", Title: "Hematoma", Text: "Findings may represent hematoma."},
		{ID: "foreign_body", Title: "Foreign body", Text: "Echogenic focus with shadowing suggests a foreign body."},
		{ID: "hyperemia", Title: "Hyperemia", Text: "Increased vascularity is present on Doppler."},
		{ID: "edema", Title: "Edema", Text: "Diffuse soft tissue edema is present."},
	},
	ExamNeonateSpine: {
		{ID: "low_conus", Title: "Low conus", Text: "Conus medullaris terminates lower than expected."},
		{ID: "thick_filum", Title: "Thickened filum", Text: "Filum terminale appears thickened."},
		{ID: "syrinx", Title: "Central canal dilation", Text: "Central canal dilation is noted."},
		{ID: "mass", Title: "Intraspinal mass", Text: "An intraspinal mass is identified."},
		{ID: "dermal_sinus", Title: "Dermal sinus", Text: "Findings suggest a dermal sinus tract."},
		{ID: "lipoma", Title: "Lipoma", Text: "Echogenic lesion suggests a spinal lipoma."},
		{ID: "tether", Title: "Tethering", Text: "Findings raise concern for tethered cord."},
	},
	ExamNeonateBrain: {
		{ID: "ivh", Title: "IVH", Text: "Germinal matrix/intraventricular hemorrhage is present."},
		{ID: "ventriculomegaly", Title: "Ventriculomegaly", Text: "Ventricular dilatation is present."},
		{ID: "pvlsus", Title: "PVL", Text: "Periventricular echogenicity is suspicious for leukomalacia."},
		{ID: "cyst", Title: "Cyst", Text: "A cystic lesion is identified."},
		{ID: "extra_axial", Title: "Extra-axial fluid", Text: "Extra-axial fluid collection is present."},
		{ID: "midline", Title: "Midline abnormality", Text: "Midline abnormality is suspected; consider MRI if clinically indicated."},
		{ID: "calc", Title: "Calcifications", Text: "Intracranial calcifications are noted."},
	},
	ExamNeck: {
		{ID: "reactive_nodes", Title: "Reactive nodes", Text: "Multiple benign-appearing reactive lymph nodes are noted."},
		{ID: "necrotic_node", Title: "Necrotic node", Text: "A lymph node with central necrosis is identified."},
		{ID: "abscess", Title: "Abscess", Text: "Complex fluid collection is suspicious for abscess."},
		{ID: "sialadenitis", Title: "Sialadenitis", Text: "Enlarged salivary gland with increased vascularity suggests sialadenitis."},
		{ID: "thyroglossal", Title: "Thyroglossal duct cyst", Text: "Findings are compatible with a thyroglossal duct cyst."},
		{ID: "branchial", Title: "Branchial cleft cyst", Text: "Findings are compatible with a branchial cleft cyst."},
		{ID: "mass", Title: "Mass", Text: "A solid neck mass is identified."},
	},
	ExamThyroid: {
		{ID: "nodule", Title: "Thyroid nodule", Text: "A thyroid nodule is identified."},
		{ID: "thyromegaly", Title: "Thyromegaly", Text: "Thyroid gland appears enlarged."},
		{ID: "thyroiditis", Title: "Thyroiditis", Text: "Heterogeneous echotexture with increased vascularity suggests thyroiditis."},
		{ID: "cyst", Title: "Cyst", Text: "A simple cyst is identified in the thyroid."},
		{ID: "microcalc", Title: "Microcalcifications", Text: "Microcalcifications are present within a thyroid lesion."},
		{ID: "suspicious_nodes", Title: "Suspicious nodes", Text: "Suspicious cervical lymph nodes are present."},
		{ID: "increased_vasc", Title: "Increased vascularity", Text: "Increased thyroid vascularity is present on Doppler."},
	},
	ExamFemalePelvis: {
		{ID: "cyst", Title: "Ovarian cyst", Text: "An ovarian cyst is identified."},
		{ID: "torsion", Title: "Torsion", Text: "Findings are concerning for ovarian torsion."},
		{ID: "mass", Title: "Adnexal mass", Text: "An adnexal mass is identified."},
		{ID: "hemorrhagic", Title: "Hemorrhagic cyst", Text: "Complex ovarian cyst suggests hemorrhagic cyst."},
		{ID: "free_fluid", Title: "Free fluid", Text: "Free pelvic fluid is present."},
		{ID: "uterine", Title: "Uterine abnormality", Text: "Uterus demonstrates an abnormal appearance; correlate clinically."},
		{ID: "pyo", Title: "Inflammation", Text: "Findings suggest pelvic inflammatory process; correlate clinically."},
	},
	ExamAdrenalKidneyBladder: {
		{ID: "hydronephrosis", Title: "Hydronephrosis", Text: "Hydronephrosis is present."},
		{ID: "pelviectasis", Title: "Pelviectasis", Text: "Mild renal pelvic dilatation is noted."},
		{ID: "ureterocele", Title: "Ureterocele", Text: "Findings are compatible with ureterocele."},
		{ID: "stones", Title: "Urolithiasis", Text: "Echogenic focus with shadowing suggests urinary calculus."},
		{ID: "cystitis", Title: "Cystitis", Text: "Bladder wall thickening suggests cystitis; correlate with urinalysis."},
		{ID: "debris", Title: "Bladder debris", Text: "Internal bladder debris is present."},
		{ID: "adrenal_heme", Title: "Adrenal hemorrhage", Text: "Adrenal enlargement/heterogeneity suggests hemorrhage."},
	},
	ExamIHPS: {
		{ID: "thick", Title: "Muscle thickening", Text: "Pyloric muscle thickness is increased."},
		{ID: "elong", Title: "Elongated canal", Text: "Pyloric channel length appears increased."},
		{ID: "no_pass", Title: "No passage", Text: "No passage of gastric contents through the pylorus is observed."},
		{ID: "shoulder", Title: "Shoulder sign", Text: "Shoulder sign is present."},
		{ID: "antrum", Title: "Antral nipple", Text: "Antral nipple sign is present."},
		{ID: "distension", Title: "Gastric distension", Text: "Stomach is distended with retained contents."},
		{ID: "other", Title: "Other cause", Text: "Consider alternate causes of vomiting if measurements are equivocal."},
	},
}

// Valid reports whether t is a known exam type.
func Valid(t ExamType) bool {
	_, ok := labels[t]
	return ok
}

// Lookup returns the full template entry for an exam type; ok is false for
// unknown types and the zero Entry is returned.
func Lookup(t ExamType) (Entry, bool) {
	if !Valid(t) {
		return Entry{}, false
	}
	return Entry{
		Type:              t,
		Label:             labels[t],
		NormalFindings:    normalFindings[t],
		DefaultImpression: defaultImpressions[t],
		AbnormalTiles:     append([]Tile(nil), abnormalTiles[t]...),
	}, true
}

// All returns every entry in display order.
func All() []Entry {
	out := make([]Entry, 0, len(Types))
	for _, t := range Types {
		e, _ := Lookup(t)
		out = append(out, e)
	}
	return out
}
