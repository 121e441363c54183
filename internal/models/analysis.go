package models

// Analysis: результаты лабораторных анализов серии (один к одному с Series).
// Поля опциональны — для серии может быть заполнена любая часть измерений.
// JSON-теги совпадают с именами колонок исходной лаборатории, сериализуем напрямую.
type Analysis struct {
	SeriesID uint `gorm:"primaryKey" json:"-"`

	BleskPri60Grad     *float64 `gorm:"column:blesk_pri_60_grad" json:"analyses_blesk_pri_60_grad,omitempty"`
	UslovnayaVyazkost  *float64 `gorm:"column:uslovnaya_vyazkost" json:"analyses_uslovnaya_vyazkost,omitempty"`
	DeltaE             *float64 `gorm:"column:delta_e" json:"analyses_delta_e,omitempty"`
	DeltaL             *float64 `gorm:"column:delta_l" json:"analyses_delta_l,omitempty"`
	DeltaA             *float64 `gorm:"column:delta_a" json:"analyses_delta_a,omitempty"`
	DeltaB             *float64 `gorm:"column:delta_b" json:"analyses_delta_b,omitempty"`
	ColorDiffDeltaED8  *float64 `gorm:"column:color_diff_deltae_d8" json:"analyses_color_diff_deltae_d8,omitempty"`
	VremyaSushki       *float64 `gorm:"column:vremya_sushki" json:"analyses_vremya_sushki,omitempty"`
	PikovayaTemp       *float64 `gorm:"column:pikovaya_temperatura" json:"analyses_pikovaya_temperatura,omitempty"`
	TolschinaDlyaGrunta *float64 `gorm:"column:tolschina_dlya_grunta" json:"analyses_tolschina_dlya_grunta,omitempty"`
	Adgeziya           *float64 `gorm:"column:adgeziya" json:"analyses_adgeziya,omitempty"`
	StoikostKRastvor   *float64 `gorm:"column:stoikost_k_rastvor" json:"analyses_stoikost_k_rastvor,omitempty"`
	VizKontrolPoverh   *string  `gorm:"column:viz_kontrol_poverh;size:15" json:"analyses_viz_kontrol_poverh,omitempty"`
	VneshniiVid        *string  `gorm:"column:vneshnii_vid;size:31" json:"analyses_vneshnii_vid,omitempty"`
	KolvoVykrSPartii   *float64 `gorm:"column:kolvo_vykr_s_partii" json:"analyses_kolvo_vykr_s_partii,omitempty"`
	StepenPeretira     *float64 `gorm:"column:stepen_peretira" json:"analyses_stepen_peretira,omitempty"`
	TverdVeschesPoV    *float64 `gorm:"column:tverd_vesches_po_v" json:"analyses_tverd_vesches_po_v,omitempty"`
	Grunt              *string  `gorm:"column:grunt;size:30" json:"analyses_grunt,omitempty"`
	TolschPlenkiZhidk  *float64 `gorm:"column:tolsch_plenki_zhidk" json:"analyses_tolsch_plenki_zhidk,omitempty"`
	TolschDlyEmLakCh   *float64 `gorm:"column:tolsch_dly_em_lak_ch" json:"analyses_tolsch_dly_em_lak_ch,omitempty"`
	TeoreticheskiiRashod *float64 `gorm:"column:teoreticheskii_rashod" json:"analyses_teoreticheskii_rashod,omitempty"`
	ProchnostPriIzgibe *float64 `gorm:"column:prochnost_pri_izgibe" json:"analyses_prochnost_pri_izgibe,omitempty"`
	StoikostKObratUdaru *float64 `gorm:"column:stoikost_k_obrat_udaru" json:"analyses_stoikost_k_obrat_udaru,omitempty"`
	TverdostPoKarandashu *string `gorm:"column:tverdost_po_karandashu;size:2" json:"analyses_tverdost_po_karandashu,omitempty"`
	ProchnRastyazhPoEr *float64 `gorm:"column:prochn_rastyazh_po_er" json:"analyses_prochn_rastyazh_po_er,omitempty"`
	Blesk              *float64 `gorm:"column:blesk" json:"analyses_blesk,omitempty"`
	Plotnost           *float64 `gorm:"column:plotnost" json:"analyses_plotnost,omitempty"`
	MassDolyaNeletVesh *float64 `gorm:"column:mass_dolya_nelet_vesh" json:"analyses_mass_dolya_nelet_vesh,omitempty"`
}

func (Analysis) TableName() string { return "analyses" }
