package onboarding

// Slide 是欢迎轮播中的一页。
type Slide struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// Condition 字段仅在另一个字段等于某值时展示
type Condition struct {
	Field  Field  `json:"field"`
	Equals string `json:"equals"`
}

// FieldDescriptor 描述渲染层如何展示一个字段。Options 只是展示提示，不做校验。
type FieldDescriptor struct {
	Name        Field      `json:"name"`
	Kind        FieldKind  `json:"kind"`
	Label       string     `json:"label"`
	Placeholder string     `json:"placeholder,omitempty"`
	Options     []string   `json:"options,omitempty"`
	ShowWhen    *Condition `json:"show_when,omitempty"`
}

// StepDefinition 描述一个表单步骤。
type StepDefinition struct {
	Step   Step              `json:"step"`
	Title  string            `json:"title"`
	Fields []FieldDescriptor `json:"fields"`
}

// Catalog 是渲染引导流程所需的静态数据。
type Catalog struct {
	Slides []Slide          `json:"slides"`
	Steps  []StepDefinition `json:"steps"`
}

var welcomeSlides = [WelcomeSlideCount]Slide{
	{Title: "Bem-vindo ao MyPetCare", Description: "Acompanhe a saúde, comportamento e rotina do seu pet em um único lugar", Emoji: "🐕"},
	{Title: "Monitore o Comportamento", Description: "Registre atividades, humor e comportamentos do seu amigo peludo", Emoji: "🐱"},
	{Title: "Organize a Rotina", Description: "Crie lembretes para alimentação, passeios, medicamentos e muito mais", Emoji: "🐰"},
	{Title: "Cuide da Saúde", Description: "Mantenha o histórico médico, vacinas e consultas sempre à mão", Emoji: "🐾"},
}

var yesNo = []string{"Sim", "Não"}

var stepDefinitions = []StepDefinition{
	{
		Step:  StepTutor,
		Title: "Sobre Você",
		Fields: []FieldDescriptor{
			{Name: FieldTutorName, Label: "Como você gostaria de ser chamado(a)?", Placeholder: "Seu nome"},
			{Name: FieldExperienceLevel, Label: "Qual seu nível de experiência com pets?", Options: []string{"Iniciante", "Intermediário", "Experiente"}},
		},
	},
	{
		Step:  StepPetType,
		Title: "Tipo de Pet",
		Fields: []FieldDescriptor{
			{Name: FieldPetType, Label: "Qual é o tipo do seu pet?", Options: []string{"Cachorro", "Gato", "Outro"}},
		},
	},
	{
		Step:  StepPetInfo,
		Title: "Identificação do Pet",
		Fields: []FieldDescriptor{
			{Name: FieldPetPhoto, Label: "Foto do pet"},
			{Name: FieldPetName, Label: "Nome do pet", Placeholder: "Ex: Max, Luna, Bob..."},
			{Name: FieldBreed, Label: "Raça", Placeholder: "Ex: Labrador, Persa, SRD..."},
			{Name: FieldAgeGroup, Label: "Idade", Options: []string{"Filhote", "Adulto", "Idoso"}},
			{Name: FieldWeight, Label: "Peso atual (kg)", Placeholder: "Ex: 12.5"},
		},
	},
	{
		Step:  StepHealth,
		Title: "Saúde Básica",
		Fields: []FieldDescriptor{
			{Name: FieldHasHealthCondition, Label: "Seu pet possui alguma condição de saúde conhecida?", Options: yesNo},
			{
				Name:        FieldHealthConditionDetails,
				Label:       "Descreva a condição de saúde",
				Placeholder: "Descreva a condição de saúde...",
				ShowWhen:    &Condition{Field: FieldHasHealthCondition, Equals: "Sim"},
			},
			{Name: FieldVaccinesUpToDate, Label: "Seu pet está com vacinas em dia?", Options: []string{"Sim", "Não", "Não sei"}},
			{Name: FieldTakesMedication, Label: "Ele toma medicação regularmente?", Options: yesNo},
		},
	},
	{
		Step:  StepBehavior,
		Title: "Comportamento e Personalidade",
		Fields: []FieldDescriptor{
			{
				Name:    FieldBehaviorType,
				Label:   "Como você descreveria o comportamento do seu pet?",
				Options: []string{"Calmo", "Energético", "Ansioso", "Medroso", "Agressivo ocasional", "Normal / equilibrado"},
			},
			{
				Name:  FieldBehaviorProblems,
				Label: "Seu pet tem algum problema atual que você gostaria de melhorar?",
				Options: []string{
					"Xixi fora do lugar",
					"Ansiedade de separação",
					"Latidos/miados excessivos",
					"Destruição de objetos",
					"Medo de pessoas",
					"Puxa muito no passeio",
				},
			},
			{Name: FieldBehaviorProblemsOther, Label: "Outros problemas", Placeholder: "Outros problemas..."},
		},
	},
	{
		Step:  StepRoutine,
		Title: "Rotina do Pet",
		Fields: []FieldDescriptor{
			{Name: FieldWalkFrequency, Label: "Com que frequência seu pet passeia?", Options: []string{"1x ao dia", "2x ao dia", "3x ou mais", "Não passeia"}},
			{Name: FieldFoodType, Label: "Qual a alimentação dele?", Options: []string{"Ração", "Natural", "Mista", "Não tenho certeza"}},
			{Name: FieldFeedingTimes, Label: "Quais horários ele costuma se alimentar?", Options: []string{"Manhã", "Tarde", "Noite", "Livre demanda"}},
		},
	},
	{
		Step:  StepNotifications,
		Title: "Lembretes e Notificações",
		Fields: []FieldDescriptor{
			{
				Name:    FieldReminderPreference,
				Label:   "Você gostaria de receber lembretes sobre cuidados?",
				Options: []string{"Sim, todos", "Sim, somente essenciais", "Apenas saúde", "Não quero lembretes"},
			},
			{
				Name:    FieldCareTracking,
				Label:   "Quais cuidados você quer acompanhar?",
				Options: []string{"Vacinas", "Vermífugo", "Antipulgas", "Banho e tosa", "Passeios", "Medicação", "Peso", "Exercícios"},
			},
		},
	},
}

// DefaultCatalog 返回轮播与各步骤字段的描述。返回值可以自由修改。
func DefaultCatalog() Catalog {
	cat := Catalog{
		Slides: make([]Slide, len(welcomeSlides)),
		Steps:  make([]StepDefinition, len(stepDefinitions)),
	}
	copy(cat.Slides, welcomeSlides[:])

	for i, def := range stepDefinitions {
		fields := make([]FieldDescriptor, len(def.Fields))
		for j, fd := range def.Fields {
			fd.Kind = fd.Name.Kind()
			fd.Options = append([]string(nil), fd.Options...)
			if fd.ShowWhen != nil {
				cond := *fd.ShowWhen
				fd.ShowWhen = &cond
			}
			fields[j] = fd
		}
		cat.Steps[i] = StepDefinition{Step: def.Step, Title: def.Title, Fields: fields}
	}

	return cat
}

// SlideAt 返回指定页，越界时返回零值。
func SlideAt(index int) (Slide, bool) {
	if index < 0 || index >= WelcomeSlideCount {
		return Slide{}, false
	}
	return welcomeSlides[index], true
}
