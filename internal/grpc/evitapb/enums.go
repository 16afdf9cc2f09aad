package evitapb

import "fmt"

type GrpcNamingConvention int32

const (
	GrpcNamingConvention_CAMEL_CASE       GrpcNamingConvention = 0
	GrpcNamingConvention_PASCAL_CASE      GrpcNamingConvention = 1
	GrpcNamingConvention_SNAKE_CASE       GrpcNamingConvention = 2
	GrpcNamingConvention_UPPER_SNAKE_CASE GrpcNamingConvention = 3
	GrpcNamingConvention_KEBAB_CASE       GrpcNamingConvention = 4
)

type GrpcAttributeUniquenessType int32

const (
	GrpcAttributeUniquenessType_NOT_UNIQUE                      GrpcAttributeUniquenessType = 0
	GrpcAttributeUniquenessType_UNIQUE_WITHIN_COLLECTION        GrpcAttributeUniquenessType = 1
	GrpcAttributeUniquenessType_UNIQUE_WITHIN_COLLECTION_LOCALE GrpcAttributeUniquenessType = 2
)

type GrpcGlobalAttributeUniquenessType int32

const (
	GrpcGlobalAttributeUniquenessType_NOT_GLOBALLY_UNIQUE          GrpcGlobalAttributeUniquenessType = 0
	GrpcGlobalAttributeUniquenessType_UNIQUE_WITHIN_CATALOG        GrpcGlobalAttributeUniquenessType = 1
	GrpcGlobalAttributeUniquenessType_UNIQUE_WITHIN_CATALOG_LOCALE GrpcGlobalAttributeUniquenessType = 2
)

type GrpcCardinality int32

const (
	GrpcCardinality_NOT_SPECIFIED GrpcCardinality = 0
	GrpcCardinality_ZERO_OR_ONE   GrpcCardinality = 1
	GrpcCardinality_EXACTLY_ONE   GrpcCardinality = 2
	GrpcCardinality_ZERO_OR_MORE  GrpcCardinality = 3
	GrpcCardinality_ONE_OR_MORE   GrpcCardinality = 4
)

type GrpcEvolutionMode int32

const (
	GrpcEvolutionMode_ADDING_ATTRIBUTES      GrpcEvolutionMode = 0
	GrpcEvolutionMode_ADDING_ASSOCIATED_DATA GrpcEvolutionMode = 1
	GrpcEvolutionMode_ADDING_REFERENCES      GrpcEvolutionMode = 2
	GrpcEvolutionMode_ADDING_PRICES          GrpcEvolutionMode = 3
	GrpcEvolutionMode_ADDING_LOCALES         GrpcEvolutionMode = 4
	GrpcEvolutionMode_ADDING_CURRENCIES      GrpcEvolutionMode = 5
	GrpcEvolutionMode_ADDING_HIERARCHY       GrpcEvolutionMode = 6
)

type GrpcOrderDirection int32

const (
	GrpcOrderDirection_ASC  GrpcOrderDirection = 0
	GrpcOrderDirection_DESC GrpcOrderDirection = 1
)

type GrpcOrderBehaviour int32

const (
	GrpcOrderBehaviour_NULLS_FIRST GrpcOrderBehaviour = 0
	GrpcOrderBehaviour_NULLS_LAST  GrpcOrderBehaviour = 1
)

type GrpcEntityScope int32

const (
	GrpcEntityScope_SCOPE_LIVE     GrpcEntityScope = 0
	GrpcEntityScope_SCOPE_ARCHIVED GrpcEntityScope = 1
)

type GrpcPriceInnerRecordHandling int32

const (
	GrpcPriceInnerRecordHandling_NONE         GrpcPriceInnerRecordHandling = 0
	GrpcPriceInnerRecordHandling_LOWEST_PRICE GrpcPriceInnerRecordHandling = 1
	GrpcPriceInnerRecordHandling_SUM          GrpcPriceInnerRecordHandling = 2
	GrpcPriceInnerRecordHandling_UNKNOWN      GrpcPriceInnerRecordHandling = 3
)

type GrpcEvitaDataType int32

const (
	GrpcEvitaDataType_STRING           GrpcEvitaDataType = 0
	GrpcEvitaDataType_INTEGER          GrpcEvitaDataType = 1
	GrpcEvitaDataType_LONG             GrpcEvitaDataType = 2
	GrpcEvitaDataType_BOOLEAN          GrpcEvitaDataType = 3
	GrpcEvitaDataType_BIG_DECIMAL      GrpcEvitaDataType = 4
	GrpcEvitaDataType_OFFSET_DATE_TIME GrpcEvitaDataType = 5
	GrpcEvitaDataType_LOCALE           GrpcEvitaDataType = 6
	GrpcEvitaDataType_CURRENCY         GrpcEvitaDataType = 7
	GrpcEvitaDataType_UUID             GrpcEvitaDataType = 8
	GrpcEvitaDataType_STRING_ARRAY     GrpcEvitaDataType = 9
	GrpcEvitaDataType_INTEGER_ARRAY    GrpcEvitaDataType = 10
	GrpcEvitaDataType_LONG_ARRAY       GrpcEvitaDataType = 11
	GrpcEvitaDataType_COMPLEX          GrpcEvitaDataType = 12
)

type GrpcCatalogState int32

const (
	GrpcCatalogState_WARMING_UP    GrpcCatalogState = 0
	GrpcCatalogState_ALIVE         GrpcCatalogState = 1
	GrpcCatalogState_INACTIVE      GrpcCatalogState = 2
	GrpcCatalogState_CORRUPTED     GrpcCatalogState = 3
	GrpcCatalogState_UNKNOWN_STATE GrpcCatalogState = 4
)

type GrpcTaskSimplifiedState int32

const (
	GrpcTaskSimplifiedState_TASK_WAITING_FOR_PRECONDITION GrpcTaskSimplifiedState = 0
	GrpcTaskSimplifiedState_TASK_QUEUED                   GrpcTaskSimplifiedState = 1
	GrpcTaskSimplifiedState_TASK_RUNNING                  GrpcTaskSimplifiedState = 2
	GrpcTaskSimplifiedState_TASK_FINISHED                 GrpcTaskSimplifiedState = 3
	GrpcTaskSimplifiedState_TASK_FAILED                   GrpcTaskSimplifiedState = 4
)

type GrpcTaskTrait int32

const (
	GrpcTaskTrait_TASK_CAN_BE_STARTED      GrpcTaskTrait = 0
	GrpcTaskTrait_TASK_CAN_BE_CANCELLED    GrpcTaskTrait = 1
	GrpcTaskTrait_TASK_NEEDS_TO_BE_STOPPED GrpcTaskTrait = 2
)

type GrpcTrafficRecordingType int32

const (
	GrpcTrafficRecordingType_SESSION_START           GrpcTrafficRecordingType = 0
	GrpcTrafficRecordingType_SESSION_CLOSE           GrpcTrafficRecordingType = 1
	GrpcTrafficRecordingType_QUERY                   GrpcTrafficRecordingType = 2
	GrpcTrafficRecordingType_FETCH                   GrpcTrafficRecordingType = 3
	GrpcTrafficRecordingType_ENRICHMENT              GrpcTrafficRecordingType = 4
	GrpcTrafficRecordingType_MUTATION                GrpcTrafficRecordingType = 5
	GrpcTrafficRecordingType_SOURCE_QUERY            GrpcTrafficRecordingType = 6
	GrpcTrafficRecordingType_SOURCE_QUERY_STATISTICS GrpcTrafficRecordingType = 7
)

type GrpcHealthProblem int32

const (
	GrpcHealthProblem_MEMORY_SHORTAGE          GrpcHealthProblem = 0
	GrpcHealthProblem_EXTERNAL_API_UNAVAILABLE GrpcHealthProblem = 1
	GrpcHealthProblem_INPUT_QUEUES_OVERLOADED  GrpcHealthProblem = 2
	GrpcHealthProblem_JAVA_INTERNAL_ERRORS     GrpcHealthProblem = 3
)

var healthProblemNames = map[GrpcHealthProblem]string{
	GrpcHealthProblem_MEMORY_SHORTAGE:          "MEMORY_SHORTAGE",
	GrpcHealthProblem_EXTERNAL_API_UNAVAILABLE: "EXTERNAL_API_UNAVAILABLE",
	GrpcHealthProblem_INPUT_QUEUES_OVERLOADED:  "INPUT_QUEUES_OVERLOADED",
	GrpcHealthProblem_JAVA_INTERNAL_ERRORS:     "JAVA_INTERNAL_ERRORS",
}

func (x GrpcHealthProblem) String() string {
	if name, ok := healthProblemNames[x]; ok {
		return name
	}
	return fmt.Sprintf("GrpcHealthProblem(%d)", int32(x))
}
